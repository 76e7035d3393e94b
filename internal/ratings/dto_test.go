package ratings

import (
	"encoding/json"
	"testing"

	pkgerrors "github.com/angelmondragon/rateboard-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitInputValue(t *testing.T) {
	accepted := map[json.Number]int{"4": 4, "4.0": 4, "5e0": 5, "7": 7}
	for raw, want := range accepted {
		got, err := SubmitInput{Rating: raw}.Value()
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []json.Number{"", "4.5", "1e20"} {
		_, err := SubmitInput{Rating: raw}.Value()
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "rating %q", raw)
	}
}
