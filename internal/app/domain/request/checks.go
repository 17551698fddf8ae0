package request

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for date fields, DD.MM.YYYY.
const DateLayout = "02.01.2006"

// AgeLimitYears bounds the birthday field. The boundary is inclusive: a
// birthday exactly AgeLimitYears years before now is still accepted, only
// earlier dates are rejected.
var AgeLimitYears = 70

// Gender values accepted by the gender field.
const (
	GenderUnknown int64 = 0
	GenderMale    int64 = 1
	GenderFemale  int64 = 2
)

// GenderNames maps gender values to their display names.
var GenderNames = map[int64]string{
	GenderUnknown: "unknown",
	GenderMale:    "male",
	GenderFemale:  "female",
}

// checkEmail requires the address to contain an '@'.
func checkEmail(v any) error {
	s := v.(string)
	if s != "" && !strings.Contains(s, "@") {
		return errors.New("must contain a symbol '@'")
	}
	return nil
}

// checkPhone requires an 11-digit number starting with 7, supplied either
// as a string or an integer.
func checkPhone(v any) error {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case int64:
		s = strconv.FormatInt(t, 10)
	}
	if s == "" {
		return nil
	}

	if len(s) != 11 {
		return errors.New("must consist of 11 digits")
	}
	if s[0] != '7' {
		return errors.New("must start with 7")
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return errors.New("must consist of 11 digits")
		}
	}
	return nil
}

// checkDate requires the DD.MM.YYYY format.
func checkDate(v any) error {
	s := v.(string)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return errors.New("must be a date in DD.MM.YYYY format")
	}
	return nil
}

// checkBirthday adds the age limit on top of the date format rule.
func checkBirthday(v any) error {
	s := v.(string)
	if s == "" {
		return nil
	}
	birthday, err := time.Parse(DateLayout, s)
	if err != nil {
		return errors.New("must be a date in DD.MM.YYYY format")
	}

	now := time.Now().UTC()
	limit := time.Date(now.Year()-AgeLimitYears, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if birthday.Before(limit) {
		return fmt.Errorf("age must not exceed %d years", AgeLimitYears)
	}
	return nil
}

// checkGender requires one of the known gender values.
func checkGender(v any) error {
	n := v.(int64)
	if _, ok := GenderNames[n]; !ok {
		return errors.New("must be 0, 1 or 2")
	}
	return nil
}

// checkClientIDs requires every list element to be an integer.
func checkClientIDs(v any) error {
	for _, item := range v.([]any) {
		if _, ok := coerceInt(item); !ok {
			return errors.New("all client ids must be integers")
		}
	}
	return nil
}
