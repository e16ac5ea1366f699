package request_test

import (
	"testing"

	"ticket-desk/internal/dto/request"

	"github.com/stretchr/testify/assert"
)

func TestPaginatedRequest_Limit(t *testing.T) {
	assert.Equal(t, 25, request.PaginatedRequest{PerPage: 25}.Limit())
	assert.Equal(t, request.DefaultPerPage, request.PaginatedRequest{}.Limit())
	assert.Equal(t, request.DefaultPerPage, request.PaginatedRequest{PerPage: -1}.Limit())
	assert.Equal(t, request.MaxPerPage, request.PaginatedRequest{PerPage: 500}.Limit())
}

func TestPaginatedRequest_Offset(t *testing.T) {
	assert.Equal(t, 0, request.PaginatedRequest{Page: 1, PerPage: 10}.Offset())
	assert.Equal(t, 20, request.PaginatedRequest{Page: 3, PerPage: 10}.Offset())
	assert.Equal(t, 0, request.PaginatedRequest{Page: 0, PerPage: 10}.Offset())

	// an oversized per_page pages by the clamped limit, not the raw value
	assert.Equal(t, request.MaxPerPage, request.PaginatedRequest{Page: 2, PerPage: 500}.Offset())
}
