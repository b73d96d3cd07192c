package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
)

func TestPageRequest_Normalize(t *testing.T) {
	cases := []struct {
		name      string
		in        dto.PageRequest
		wantLimit int
		wantOff   int
	}{
		{"vacío", dto.PageRequest{}, dto.DefaultPageLimit, 0},
		{"límite negativo", dto.PageRequest{Limit: -5, Offset: 3}, dto.DefaultPageLimit, 3},
		{"límite excesivo", dto.PageRequest{Limit: 500}, dto.MaxPageLimit, 0},
		{"offset negativo", dto.PageRequest{Limit: 10, Offset: -1}, 10, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.in
			p.Normalize()
			assert.Equal(t, tc.wantLimit, p.Limit)
			assert.Equal(t, tc.wantOff, p.Offset)
		})
	}
}
