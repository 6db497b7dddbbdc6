package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/libris/library-service/library/internal/model"
)

func TestDueDate(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name   string
		borrow model.Date
		want   model.Date
	}{
		{
			name:   "four weeks out",
			borrow: model.NewDate(2024, time.January, 1),
			want:   model.NewDate(2024, time.January, 29),
		},
		{
			name:   "crosses month boundary",
			borrow: model.NewDate(2024, time.March, 20),
			want:   model.NewDate(2024, time.April, 17),
		},
		{
			name:   "leap february",
			borrow: model.NewDate(2024, time.February, 5),
			want:   model.NewDate(2024, time.March, 4),
		},
		{
			name:   "crosses year boundary",
			borrow: model.NewDate(2023, time.December, 15),
			want:   model.NewDate(2024, time.January, 12),
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, DueDate(tt.borrow))
		})
	}
}

func TestDueDate_IgnoresTimeOfDay(t *testing.T) {
	t.Parallel()
	late := model.DateOf(time.Date(2024, time.January, 1, 23, 59, 59, 0, time.UTC))
	early := model.DateOf(time.Date(2024, time.January, 1, 0, 0, 1, 0, time.UTC))
	require.Equal(t, DueDate(early), DueDate(late))
	require.Equal(t, model.NewDate(2024, time.January, 29), DueDate(late))
}

func TestNewCardNumber(t *testing.T) {
	t.Parallel()
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		number, err := newCardNumber()
		require.NoError(t, err)
		require.Len(t, number, cardNumberLen)
		for _, r := range number {
			require.True(t, r >= '0' && r <= '9')
		}
		seen[number] = struct{}{}
	}
	require.Greater(t, len(seen), 90)
}
