// Package scoring implements the business collaborators consuming
// validated fields: the score computation with its store-backed cache, and
// the per-client interests lookup.
package scoring

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/scorebridge/scoring-api/internal/app/domain/request"
	"github.com/scorebridge/scoring-api/internal/app/storage"
)

const scoreCacheTTL = time.Hour

// Score computes the caller's score from the supplied fields. Results are
// cached in the store keyed by the identifying fields; a broken cache falls
// back to recomputation.
func Score(ctx context.Context, store storage.Store, phone, email, firstName, lastName *string, birthday *time.Time, gender *int64) float64 {
	key := cacheKey(phone, firstName, lastName, birthday)
	if cached, ok := store.CacheGet(ctx, key); ok {
		if score, err := strconv.ParseFloat(cached, 64); err == nil {
			return score
		}
	}

	var score float64
	if deref(phone) != "" {
		score += 1.5
	}
	if deref(email) != "" {
		score += 1.5
	}
	if birthday != nil && gender != nil && *gender != request.GenderUnknown {
		score += 1.5
	}
	if deref(firstName) != "" && deref(lastName) != "" {
		score += 0.5
	}

	store.CacheSet(ctx, key, strconv.FormatFloat(score, 'g', -1, 64), scoreCacheTTL)
	return score
}

// Interests returns the interest list stored for a client id. A missing
// key yields an empty list; store failures propagate.
func Interests(ctx context.Context, store storage.Store, clientID int64) ([]string, error) {
	raw, err := store.Get(ctx, fmt.Sprintf("i:%d", clientID))
	if errors.Is(err, storage.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("interests lookup for client %d: %w", clientID, err)
	}

	var interests []string
	if err := json.Unmarshal([]byte(raw), &interests); err != nil {
		return nil, fmt.Errorf("decode interests for client %d: %w", clientID, err)
	}
	return interests, nil
}

func cacheKey(phone, firstName, lastName *string, birthday *time.Time) string {
	birthdayPart := ""
	if birthday != nil {
		birthdayPart = birthday.Format("20060102")
	}
	joined := deref(firstName) + deref(lastName) + deref(phone) + birthdayPart
	sum := md5.Sum([]byte(joined))
	return "uid:" + hex.EncodeToString(sum[:])
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
