package request

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AdminLogin identifies admin callers; they authenticate against the
// time-salted admin digest and receive the fixed-score shortcut.
const AdminLogin = "admin"

// MethodRequest is the validated method envelope.
type MethodRequest struct {
	Account   string
	Login     string
	Token     string
	Method    string
	Arguments map[string]any
}

// IsAdmin reports whether the caller is the admin login.
func (r MethodRequest) IsAdmin() bool { return r.Login == AdminLogin }

// ParseMethod validates a raw body against the method envelope schema.
func ParseMethod(raw map[string]any) (MethodRequest, error) {
	inst, err := methodSchema.Build(raw)
	if err != nil {
		return MethodRequest{}, err
	}
	return MethodRequest{
		Account:   inst.String("account"),
		Login:     inst.String("login"),
		Token:     inst.String("token"),
		Method:    inst.String("method"),
		Arguments: inst.Object("arguments"),
	}, nil
}

// scorePairs lists the field pairs of which at least one must be fully
// supplied for an online_score payload to be usable.
var scorePairs = [][2]string{
	{"phone", "email"},
	{"first_name", "last_name"},
	{"gender", "birthday"},
}

// OnlineScoreRequest is the validated online_score payload. Absent optional
// fields are nil; a supplied gender of 0 (unknown) still counts as filled.
type OnlineScoreRequest struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Birthday  *time.Time
	Gender    *int64

	filled []string
}

// ParseOnlineScore validates an arguments map against the online_score
// schema. The cross-field pair rule is enforced separately by the caller
// through ValidatePairs.
func ParseOnlineScore(raw map[string]any) (OnlineScoreRequest, error) {
	inst, err := onlineScoreSchema.Build(raw)
	if err != nil {
		return OnlineScoreRequest{}, err
	}

	var req OnlineScoreRequest
	if inst.Has("first_name") {
		v := inst.String("first_name")
		req.FirstName = &v
	}
	if inst.Has("last_name") {
		v := inst.String("last_name")
		req.LastName = &v
	}
	if inst.Has("email") {
		v := inst.String("email")
		req.Email = &v
	}
	if inst.Has("phone") {
		v := stringify(inst.Value("phone"))
		req.Phone = &v
	}
	if inst.Has("birthday") {
		v, _ := time.Parse(DateLayout, inst.String("birthday"))
		req.Birthday = &v
	}
	if inst.Has("gender") {
		v := inst.Int("gender")
		req.Gender = &v
	}

	for _, f := range onlineScoreSchema.fields {
		if inst.Has(f.Name) {
			req.filled = append(req.filled, f.Name)
		}
	}
	return req, nil
}

// FilledFields returns the names of the fields actually supplied, in schema
// declaration order. Used for audit, not validation.
func (r OnlineScoreRequest) FilledFields() []string { return r.filled }

// ValidatePairs enforces the cross-field rule: at least one of the score
// pairs must be fully supplied, otherwise the payload is rejected with a
// reason listing the unmet pairs.
func (r OnlineScoreRequest) ValidatePairs() error {
	supplied := make(map[string]bool, len(r.filled))
	for _, name := range r.filled {
		supplied[name] = true
	}

	var unmet []string
	for _, pair := range scorePairs {
		if supplied[pair[0]] && supplied[pair[1]] {
			return nil
		}
		unmet = append(unmet, pair[0]+"/"+pair[1])
	}
	return fmt.Errorf("at least one pair must be supplied: %s", strings.Join(unmet, ", "))
}

// ClientsInterestsRequest is the validated clients_interests payload.
type ClientsInterestsRequest struct {
	ClientIDs []int64
	Date      *time.Time
}

// ParseClientsInterests validates an arguments map against the
// clients_interests schema.
func ParseClientsInterests(raw map[string]any) (ClientsInterestsRequest, error) {
	inst, err := clientsInterestsSchema.Build(raw)
	if err != nil {
		return ClientsInterestsRequest{}, err
	}

	rawIDs := inst.Value("client_ids").([]any)
	ids := make([]int64, 0, len(rawIDs))
	for _, item := range rawIDs {
		n, _ := coerceInt(item)
		ids = append(ids, n.(int64))
	}

	req := ClientsInterestsRequest{ClientIDs: ids}
	if inst.Has("date") && inst.String("date") != "" {
		v, _ := time.Parse(DateLayout, inst.String("date"))
		req.Date = &v
	}
	return req, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}
