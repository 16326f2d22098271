package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCreate(t *testing.T) {
	valid := CreateMatchData{Date: "2024-04-15", Time: "19:00", Location: "Zuidhaghe", MaxPlayers: 10}

	tests := []struct {
		name   string
		mutate func(d *CreateMatchData)
		want   FormErrors
	}{
		{"valid", func(d *CreateMatchData) {}, FormErrors{}},
		{"missing date", func(d *CreateMatchData) { d.Date = "" }, FormErrors{"date": "Date is required"}},
		{"bad date", func(d *CreateMatchData) { d.Date = "2024-02-30" }, FormErrors{"date": "Date must be a calendar date (YYYY-MM-DD)"}},
		{"missing time", func(d *CreateMatchData) { d.Time = "" }, FormErrors{"time": "Time is required"}},
		{"bad time", func(d *CreateMatchData) { d.Time = "25:00" }, FormErrors{"time": "Time must be a time of day (HH:MM)"}},
		{"blank location", func(d *CreateMatchData) { d.Location = "   " }, FormErrors{"location": "Location is required"}},
		{"zero players", func(d *CreateMatchData) { d.MaxPlayers = 0 }, FormErrors{"max_players": "Maximum players must be at least 2"}},
		{"one player", func(d *CreateMatchData) { d.MaxPlayers = 1 }, FormErrors{"max_players": "Maximum players must be at least 2"}},
		{"too many players", func(d *CreateMatchData) { d.MaxPlayers = 21 }, FormErrors{"max_players": "Maximum players must be at most 20"}},
		{"bounds inclusive low", func(d *CreateMatchData) { d.MaxPlayers = 2 }, FormErrors{}},
		{"bounds inclusive high", func(d *CreateMatchData) { d.MaxPlayers = 20 }, FormErrors{}},
		{"legacy timestamp time", func(d *CreateMatchData) { d.Time = "2024-04-15T19:00:00.000Z" }, FormErrors{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			assert.Equal(t, tt.want, ValidateCreate(d))
		})
	}
}

func TestValidateCreate_AllMissing(t *testing.T) {
	errs := ValidateCreate(CreateMatchData{})
	assert.Len(t, errs, 4)
	assert.Equal(t, "Location is required", errs["location"])
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"19:00", "19:00"},
		{"9:05", "09:05"},
		{"18:30:59", "18:30"},
		{"2024-04-15T19:00:00Z", "19:00"},
		{"2024-04-15T21:15:00+02:00", "19:15"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeTime(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := NormalizeTime("seven pm")
	assert.ErrorIs(t, err, ErrInvalidTime)
}
