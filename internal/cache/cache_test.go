package cache

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barberbook/internal/model"
)

type countingSource struct {
	stylistCalls  int
	serviceCalls  int
	scheduleCalls int
}

func (s *countingSource) ListStylists(context.Context) ([]model.Stylist, error) {
	s.stylistCalls++
	return []model.Stylist{{ID: "sty1", Name: "Ana"}}, nil
}

func (s *countingSource) ListServices(context.Context) ([]model.Service, error) {
	s.serviceCalls++
	return []model.Service{{ID: "cut", Name: "Corte"}}, nil
}

func (s *countingSource) GetSchedule(context.Context) (*model.WeeklySchedule, error) {
	s.scheduleCalls++
	return &model.WeeklySchedule{Days: map[string][]model.TimeRange{
		"1": {{Start: "09:30", End: "13:30"}},
	}}, nil
}

func TestPassThroughWithoutRedis(t *testing.T) {
	src := &countingSource{}
	c := NewCatalog(src, nil, 0, zerolog.Nop())

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		stylists, err := c.ListStylists(ctx)
		require.NoError(t, err)
		assert.Len(t, stylists, 1)

		services, err := c.ListServices(ctx)
		require.NoError(t, err)
		assert.Len(t, services, 1)

		schedule, err := c.GetSchedule(ctx)
		require.NoError(t, err)
		assert.Len(t, schedule.Days["1"], 1)
	}

	// No Redis means every read hits the store.
	assert.Equal(t, 2, src.stylistCalls)
	assert.Equal(t, 2, src.serviceCalls)
	assert.Equal(t, 2, src.scheduleCalls)
}
