package service

import (
	"context"

	"soulgate/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrCodeNotFound is returned when an authorization code is absent, already
// consumed, or past its TTL. Callers cannot tell these cases apart, by
// construction: the store deletes on read.
var ErrCodeNotFound = errors.New("authorization code not found")

// AuthCodeStore keeps single-use authorization codes for the few minutes
// between issuance and exchange. Implementations must make Take atomic so
// two concurrent exchanges of the same code yield exactly one success.
type AuthCodeStore interface {
	// Save stores the code payload under the opaque code with the
	// configured short TTL.
	Save(ctx context.Context, code string, value *entity.AuthCode) error

	// Take retrieves and deletes the payload in one step, returning
	// ErrCodeNotFound when the code is unknown or expired.
	Take(ctx context.Context, code string) (*entity.AuthCode, error)
}
