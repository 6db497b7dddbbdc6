package model

import "database/sql"

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "PENDING"
	NotificationSuccess NotificationStatus = "SUCCESS"
	NotificationFailed  NotificationStatus = "FAILED"
)

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type Genre struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Publisher struct {
	ID    int64  `json:"id" db:"id"`
	Title string `json:"title" db:"title"`
	City  string `json:"city" db:"city"`
}

type Author struct {
	ID        int64  `json:"id" db:"id"`
	FirstName string `json:"firstName" db:"first_name"`
	Surname   string `json:"surname" db:"surname"`
}

type Book struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	AuthorID    int64  `json:"authorId" db:"author_id"`
	PublisherID int64  `json:"publisherId" db:"publisher_id"`
	Direction   string `json:"directionOfLiterature" db:"direction"`
}

// BookView is the search/list representation with related names
// joined in and genres aggregated.
type BookView struct {
	ID              int64          `json:"id" db:"id"`
	Title           string         `json:"title" db:"title"`
	AuthorFirstName string         `json:"authorFirstName" db:"author_first_name"`
	AuthorSurname   string         `json:"authorSurname" db:"author_surname"`
	PublisherTitle  string         `json:"publisherTitle" db:"publisher_title"`
	Direction       string         `json:"directionOfLiterature" db:"direction"`
	GenresAgg       sql.NullString `json:"-" db:"genres"`
	Genres          []string       `json:"genres" db:"-"`
}

type User struct {
	ID           int64  `json:"id" db:"id"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role"`
}

type Reader struct {
	ID        int64  `json:"id" db:"id"`
	UserID    int64  `json:"userId" db:"user_id"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
	Passport  string `json:"passportDetails" db:"passport"`
	Phone     string `json:"phone" db:"phone"`
}

type ReaderView struct {
	Reader
	CardNumber string `json:"libraryCardNumber" db:"card_number"`
	Email      string `json:"email" db:"email"`
}

type LibraryCard struct {
	ID         int64  `json:"id" db:"id"`
	ReaderID   int64  `json:"readerId" db:"reader_id"`
	CardNumber string `json:"cardNumber" db:"card_number"`
	CreatedAt  Date   `json:"createdAt" db:"created_at"`
}

// LoanRecord is one borrowing of one book on one library card.
// ExpectedReturn is computed once at creation and not touched again
// outside administrative patches.
type LoanRecord struct {
	ID             int64              `json:"id" db:"id"`
	LoanUID        string             `json:"loanUid" db:"loan_uid"`
	BookID         int64              `json:"bookId" db:"book_id"`
	CardID         int64              `json:"cardId" db:"card_id"`
	BorrowDate     Date               `json:"borrowDate" db:"borrow_date"`
	ExpectedReturn Date               `json:"expectedReturn" db:"expected_return"`
	ActualReturn   *Date              `json:"actualReturn" db:"actual_return"`
	Status         NotificationStatus `json:"notificationStatus" db:"status"`
}

// DueLoan is a loan joined with everything the reminder needs.
type DueLoan struct {
	LoanRecord
	BookTitle       string `db:"book_title"`
	ReaderFirstName string `db:"reader_first_name"`
	ReaderEmail     string `db:"reader_email"`
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []BookView `json:"items"`
}

type ListAuthors struct {
	Paging `json:",inline"`
	Items  []Author `json:"items"`
}

type ListReaders struct {
	Paging `json:",inline"`
	Items  []ReaderView `json:"items"`
}

// BookFilter carries the optional search criteria of one book search
// request. Empty fields mean "no constraint".
type BookFilter struct {
	Title           string
	AuthorFirstName string
	AuthorSurname   string
	PublisherTitle  string
	Direction       string
	Genres          []string
}

type AuthorFilter struct {
	FirstName string
	Surname   string
}

type ReaderFilter struct {
	FirstName  string
	LastName   string
	Passport   string
	CardNumber string
	Phone      string
}

// NotificationEvent is published to kafka after each sweep attempt.
type NotificationEvent struct {
	LoanUID string             `json:"loanUid"`
	Email   string             `json:"email"`
	DueDate Date               `json:"dueDate"`
	Status  NotificationStatus `json:"status"`
}
