package grpcadapter

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/samirrijal/routeguide/internal/core/domain"
)

func TestToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"nil", nil, codes.OK},
		{"missing location", domain.ErrMissingLocation, codes.InvalidArgument},
		{"wrapped missing location", fmt.Errorf("chat: %w", domain.ErrMissingLocation), codes.InvalidArgument},
		{"invalid rectangle", domain.ErrInvalidRectangle, codes.InvalidArgument},
		{"canceled", context.Canceled, codes.Canceled},
		{"deadline", context.DeadlineExceeded, codes.DeadlineExceeded},
		{"transport status", status.Error(codes.Unavailable, "gone"), codes.Unavailable},
		{"other", errors.New("boom"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, status.Code(toStatus(tt.err)))
		})
	}
}
