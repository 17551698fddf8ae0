package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldValidate_RequiredAndAbsent(t *testing.T) {
	f := Field{Name: "login", Kind: KindString, Required: true}

	_, err := f.Validate(nil, false)
	require.Error(t, err)
	assert.EqualError(t, err, "field is required")
}

func TestFieldValidate_OptionalAndAbsent(t *testing.T) {
	f := Field{Name: "account", Kind: KindString, Nullable: true}

	v, err := f.Validate(nil, false)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestFieldValidate_TypeMismatch(t *testing.T) {
	cases := []struct {
		name string
		kind Kind
		raw  any
		want string
	}{
		{"string gets number", KindString, float64(5), "must be string"},
		{"int gets string", KindInt, "5", "must be int"},
		{"int gets fraction", KindInt, 1.5, "must be int"},
		{"object gets list", KindObject, []any{}, "must be object"},
		{"list gets string", KindIntList, "1,2", "must be list of int"},
		{"string-or-int gets bool", KindStringOrInt, true, "must be string or int"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := Field{Name: "x", Kind: tc.kind, Nullable: true}
			_, err := f.Validate(tc.raw, true)
			require.Error(t, err)
			assert.EqualError(t, err, tc.want)
		})
	}
}

func TestFieldValidate_Emptiness(t *testing.T) {
	f := Field{Name: "method", Kind: KindString}
	_, err := f.Validate("", true)
	require.Error(t, err)
	assert.EqualError(t, err, "can not be empty")

	// Nullable fields accept empty values.
	f.Nullable = true
	v, err := f.Validate("", true)
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestCheckEmail(t *testing.T) {
	assert.NoError(t, checkEmail("user@example.com"))
	assert.NoError(t, checkEmail(""))
	assert.EqualError(t, checkEmail("not-an-email"), "must contain a symbol '@'")
}

func TestCheckPhone(t *testing.T) {
	cases := []struct {
		name string
		raw  any
		want string
	}{
		{"valid string", "79175002040", ""},
		{"valid int", int64(79175002040), ""},
		{"empty allowed", "", ""},
		{"too short", "123", "must consist of 11 digits"},
		{"wrong prefix", "89175002040", "must start with 7"},
		{"non digits", "7917500204x", "must consist of 11 digits"},
		{"short int", int64(791750020), "must consist of 11 digits"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkPhone(tc.raw)
			if tc.want == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tc.want)
			}
		})
	}
}

func TestCheckDate(t *testing.T) {
	assert.NoError(t, checkDate("01.01.2017"))
	assert.EqualError(t, checkDate("2017-01-01"), "must be a date in DD.MM.YYYY format")
	assert.EqualError(t, checkDate("32.01.2017"), "must be a date in DD.MM.YYYY format")
}

func TestCheckBirthday(t *testing.T) {
	young := time.Now().AddDate(-30, 0, 0).Format(DateLayout)
	assert.NoError(t, checkBirthday(young))

	almostLimit := time.Now().AddDate(-AgeLimitYears, 0, 1).Format(DateLayout)
	assert.NoError(t, checkBirthday(almostLimit))

	tooOld := time.Now().AddDate(-AgeLimitYears, 0, -1).Format(DateLayout)
	assert.EqualError(t, checkBirthday(tooOld), "age must not exceed 70 years")

	assert.EqualError(t, checkBirthday("bad"), "must be a date in DD.MM.YYYY format")
}

func TestCheckGender(t *testing.T) {
	for _, g := range []int64{GenderUnknown, GenderMale, GenderFemale} {
		assert.NoError(t, checkGender(g))
	}
	assert.EqualError(t, checkGender(int64(3)), "must be 0, 1 or 2")
	assert.EqualError(t, checkGender(int64(-1)), "must be 0, 1 or 2")
}

func TestCheckClientIDs(t *testing.T) {
	assert.NoError(t, checkClientIDs([]any{float64(1), float64(2)}))
	assert.EqualError(t, checkClientIDs([]any{float64(1), "2"}), "all client ids must be integers")
	assert.EqualError(t, checkClientIDs([]any{1.5}), "all client ids must be integers")
}
