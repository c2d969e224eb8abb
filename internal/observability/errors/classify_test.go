package errors

import (
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type artifactError struct {
	key string
}

func (e *artifactError) Error() string {
	return "artifact missing: " + e.key
}

func TestClassify(t *testing.T) {
	t.Parallel()

	plain := goerrors.New("report not found")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil error",
			err:  nil,
			want: "",
		},
		{
			name: "plain error",
			err:  plain,
			want: "errors_errorstring",
		},
		{
			name: "wrapped error resolves to innermost",
			err:  fmt.Errorf("load report: %w", plain),
			want: "errors_errorstring",
		},
		{
			name: "typed error",
			err:  &artifactError{key: "report.csv"},
			want: "errors_artifacterror",
		},
		{
			name: "wrapped typed error",
			err:  fmt.Errorf("run report: %w", &artifactError{key: "report.csv"}),
			want: "errors_artifacterror",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
