package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	t.Parallel()

	tests := map[string]Action{
		"1": Hit, "h": Hit, "HIT": Hit, " hit ": Hit,
		"2": Stand, "s": Stand, "Stand": Stand,
		"3": Double, "d": Double, "double": Double,
		"4": Split, "sp": Split, "split": Split,
	}
	for token, want := range tests {
		got, err := ParseAction(token)
		require.NoError(t, err, token)
		assert.Equal(t, want, got, token)
	}

	for _, bad := range []string{"", "5", "x", "surrender"} {
		_, err := ParseAction(bad)
		assert.ErrorIs(t, err, ErrMalformedInput, bad)
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Money
		wantErr bool
	}{
		{"25", Dollars(25), false},
		{"$25", Dollars(25), false},
		{" 0 ", 0, false},
		{"-5", 0, true},
		{"12.50", 0, true},
		{"ten", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.input)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrMalformedInput, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestParseYesNo(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"y", "Y", "yes", " YES"} {
		ok, err := ParseYesNo(s)
		require.NoError(t, err)
		assert.True(t, ok, s)
	}
	for _, s := range []string{"n", "No"} {
		ok, err := ParseYesNo(s)
		require.NoError(t, err)
		assert.False(t, ok, s)
	}
	_, err := ParseYesNo("maybe")
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestValidActions(t *testing.T) {
	t.Parallel()

	pair := handOf("8s 8d", Dollars(10))

	assert.Equal(t, []Action{Hit, Stand, Double, Split}, ValidActions(pair, Dollars(10)))
	assert.Equal(t, []Action{Hit, Stand, Split}, ValidActions(pair, Dollars(5)))

	three := handOf("2s 3d 4h", Dollars(10))
	assert.Equal(t, []Action{Hit, Stand}, ValidActions(three, Dollars(100)))
}

func TestActionMenuKey(t *testing.T) {
	assert.Equal(t, "1", Hit.MenuKey())
	assert.Equal(t, "4", Split.MenuKey())
	assert.Equal(t, "Double", Double.String())
	assert.Equal(t, "Unknown", Action(9).String())
}
