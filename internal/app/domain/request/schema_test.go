package request

import "testing"

func TestBuildFirstMissingFieldWins(t *testing.T) {
	// login, token, arguments and method are all missing; the first field in
	// declaration order must be the one reported, deterministically.
	for i := 0; i < 10; i++ {
		_, err := methodSchema.Build(map[string]any{})
		if err == nil {
			t.Fatalf("expected error for empty body")
		}
		if err.Error() != "login: field is required" {
			t.Fatalf("expected login error, got %q", err.Error())
		}
	}
}

func TestBuildFailFast(t *testing.T) {
	// token has a type error, method is missing; token comes first.
	raw := map[string]any{
		"login": "user",
		"token": float64(5),
	}
	_, err := methodSchema.Build(raw)
	if err == nil {
		t.Fatalf("expected error")
	}
	if err.Error() != "token: must be string" {
		t.Fatalf("expected token type error, got %q", err.Error())
	}
}

func TestBuildEnvelope(t *testing.T) {
	raw := map[string]any{
		"account":   "horns&hoofs",
		"login":     "user",
		"token":     "sometoken",
		"arguments": map[string]any{"phone": "79175002040"},
		"method":    "online_score",
	}
	inst, err := methodSchema.Build(raw)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if inst.String("login") != "user" {
		t.Fatalf("login = %q", inst.String("login"))
	}
	if inst.Object("arguments")["phone"] != "79175002040" {
		t.Fatalf("arguments not preserved")
	}
	if !inst.Has("account") || inst.Has("missing") {
		t.Fatalf("presence tracking broken")
	}
}

func TestBuildEnvelopeEdges(t *testing.T) {
	cases := []struct {
		name string
		raw  map[string]any
		want string
	}{
		{
			"empty method rejected",
			map[string]any{"login": "", "token": "", "arguments": map[string]any{}, "method": ""},
			"method: can not be empty",
		},
		{
			"arguments must be object",
			map[string]any{"login": "", "token": "", "arguments": "x", "method": "m"},
			"arguments: must be object",
		},
		{
			"empty login and token accepted",
			map[string]any{"login": "", "token": "", "arguments": map[string]any{}, "method": "m"},
			"",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := methodSchema.Build(tc.raw)
			if tc.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tc.want {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
		})
	}
}

func TestBuildClientsInterests(t *testing.T) {
	cases := []struct {
		name string
		raw  map[string]any
		want string
	}{
		{"missing ids", map[string]any{}, "client_ids: field is required"},
		{"empty ids", map[string]any{"client_ids": []any{}}, "client_ids: can not be empty"},
		{"non int ids", map[string]any{"client_ids": []any{float64(1), "x"}}, "client_ids: all client ids must be integers"},
		{"not a list", map[string]any{"client_ids": "1"}, "client_ids: must be list of int"},
		{"valid", map[string]any{"client_ids": []any{float64(1), float64(2)}, "date": "19.07.2017"}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := clientsInterestsSchema.Build(tc.raw)
			if tc.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tc.want {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
		})
	}
}

func TestNewSchemaRejectsDuplicates(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate field name")
		}
	}()
	NewSchema("dup",
		Field{Name: "a", Kind: KindString},
		Field{Name: "a", Kind: KindInt},
	)
}
