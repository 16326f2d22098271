package match

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	pv "github.com/DhavalSuthar-24/futsapp/pkg/validator"
)

var ErrInvalidTime = errors.New("invalid time of day")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		pv.UseJSONNames(v)
		_ = v.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(DateLayout, fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("clock_time", func(fl validator.FieldLevel) bool {
			_, err := NormalizeTime(fl.Field().String())
			return err == nil
		})
		validate = v
	})
	return validate
}

var messages = map[string]map[string]string{
	"date": {
		"required":      "Date is required",
		"calendar_date": "Date must be a calendar date (YYYY-MM-DD)",
	},
	"time": {
		"required":   "Time is required",
		"clock_time": "Time must be a time of day (HH:MM)",
	},
	"location": {
		"required": "Location is required",
	},
	"max_players": {
		"required": fmt.Sprintf("Maximum players must be at least %d", MinPlayers),
		"min":      fmt.Sprintf("Maximum players must be at least %d", MinPlayers),
		"max":      fmt.Sprintf("Maximum players must be at most %d", MaxPlayers),
	},
}

// ValidateCreate checks creation input. Surrounding whitespace is ignored.
func ValidateCreate(data CreateMatchData) FormErrors {
	data = trimData(data)
	errs := FormErrors{}

	err := getValidator().Struct(data)
	if err == nil {
		return errs
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		errs["form"] = err.Error()
		return errs
	}
	for _, fe := range ve {
		if _, seen := errs[fe.Field()]; seen {
			continue
		}
		msg, ok := messages[fe.Field()][fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
		errs[fe.Field()] = msg
	}
	return errs
}

func trimData(data CreateMatchData) CreateMatchData {
	data.Date = strings.TrimSpace(data.Date)
	data.Time = strings.TrimSpace(data.Time)
	data.Location = strings.TrimSpace(data.Location)
	return data
}

// NormalizeTime reduces a time-of-day input to HH:MM. It accepts HH:MM, HH:MM:SS, and a full
// RFC 3339 timestamp, which is taken in UTC.
func NormalizeTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{TimeLayout, "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(TimeLayout), nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format(TimeLayout), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTime, s)
}
