package model

type CreateBookRequest struct {
	Title       string   `json:"title" validate:"required"`
	AuthorID    int64    `json:"authorId" validate:"required"`
	PublisherID int64    `json:"publisherId" validate:"required"`
	Direction   string   `json:"directionOfLiterature"`
	Genres      []string `json:"genres"`
}

type UpdateBookRequest struct {
	Title       *string   `json:"title"`
	AuthorID    *int64    `json:"authorId"`
	PublisherID *int64    `json:"publisherId"`
	Direction   *string   `json:"directionOfLiterature"`
	Genres      *[]string `json:"genres"`
}

type CreateAuthorRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	Surname   string `json:"surname" validate:"required"`
}

type UpdateAuthorRequest struct {
	FirstName *string `json:"firstName"`
	Surname   *string `json:"surname"`
}

type CreateGenreRequest struct {
	Name string `json:"name" validate:"required"`
}

type CreatePublisherRequest struct {
	Title string `json:"title" validate:"required"`
	City  string `json:"city"`
}

type UpdatePublisherRequest struct {
	Title *string `json:"title"`
	City  *string `json:"city"`
}

// CreateReaderRequest completes a reader profile for an existing user
// account; a library card is issued as part of it.
type CreateReaderRequest struct {
	UserID    int64  `json:"userId" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Passport  string `json:"passportDetails"`
	Phone     string `json:"phone"`
}

type UpdateReaderRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Passport  *string `json:"passportDetails"`
	Phone     *string `json:"phone"`
}

type CreateLoanRequest struct {
	BookID     int64  `json:"bookId" validate:"required"`
	CardNumber string `json:"libraryCardNumber" validate:"required"`
	// BorrowDate defaults to today when omitted.
	BorrowDate *Date `json:"borrowDate"`
}

// UpdateLoanRequest is the administrative patch; it bypasses the
// notification state machine on purpose.
type UpdateLoanRequest struct {
	BorrowDate     *Date               `json:"borrowDate"`
	ExpectedReturn *Date               `json:"expectedReturn"`
	ActualReturn   *Date               `json:"actualReturn"`
	Status         *NotificationStatus `json:"notificationStatus"`
}

type ReturnLoanRequest struct {
	// ReturnDate defaults to today when omitted.
	ReturnDate *Date `json:"returnDate"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=ADMIN READER"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
