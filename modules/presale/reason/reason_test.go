package reason

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	err := errors.Wrap(errors.WithStack(HardCapExceeded), "buy")
	r, ok := From(err)
	assert.True(t, ok)
	assert.Equal(t, HardCapExceeded, r)
	assert.True(t, errors.Is(err, HardCapExceeded))
	assert.False(t, errors.Is(err, Paused))

	_, ok = From(errors.New("boom"))
	assert.False(t, ok)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, fiber.StatusForbidden, Unauthorized.HTTPStatus())
	assert.Equal(t, fiber.StatusConflict, NothingToClaim.HTTPStatus())
	assert.Equal(t, fiber.StatusBadRequest, BelowMinimum.HTTPStatus())
	assert.Equal(t, "nothing to claim", NothingToClaim.Message())
}
