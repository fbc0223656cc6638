package model_test

import (
	"testing"

	"github.com/dt-pm-tools/tracker-port/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "fractional seconds and offset stripped",
			input: "2016-03-01T10:00:00.123456+00:00",
			want:  "2016-03-01T10:00:00",
		},
		{
			name:  "offset converted to UTC",
			input: "2016-03-01T10:00:00+02:00",
			want:  "2016-03-01T08:00:00",
		},
		{
			name:  "space separated export form",
			input: "2012-03-01 10:00:00+00:00",
			want:  "2012-03-01T10:00:00",
		},
		{
			name:  "zulu suffix",
			input: "2016-03-01T10:00:00Z",
			want:  "2016-03-01T10:00:00",
		},
		{
			name:  "already normalized",
			input: "2016-03-01T10:00:00",
			want:  "2016-03-01T10:00:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.NormalizeTimestamp(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, 19)
		})
	}
}

func TestNormalizeTimestampRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "yesterday", "2016-03-01", "2016-03-01T10:00", "10:00:00"} {
		_, err := model.NormalizeTimestamp(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestNormalizeBody(t *testing.T) {
	assert.Equal(t, "a\nb", model.NormalizeBody("  a\r\nb \n\n"))
	assert.Equal(t, "a\n\nb", model.NormalizeBody("a\n\nb"), "interior blank lines preserved")
	assert.Equal(t, "", model.NormalizeBody(" \r\n "))
}
