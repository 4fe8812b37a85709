package services

import (
	"testing"
	"time"

	"cafe-jampot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func testOrders() []models.Order {
	return []models.Order{
		{
			ID: 1, HostelName: "MTR", TotalAmount: 240, CreatedAt: day("2026-01-10").Add(20 * time.Hour),
			Items: []models.OrderItem{{Name: "Honey Chili Fries", Price: 120, Quantity: 2}},
		},
		{
			ID: 2, HostelName: "Nilima", TotalAmount: 200, CreatedAt: day("2026-01-11").Add(21 * time.Hour),
			Items: []models.OrderItem{
				{Name: "Cold Coffee", Price: 60, Quantity: 1},
				{Name: "Chicken Chow Mein", Price: 140, Quantity: 1},
			},
		},
		{
			ID: 3, HostelName: "MTR", TotalAmount: 120, CreatedAt: day("2026-01-11").Add(22 * time.Hour),
			Items: []models.OrderItem{{Name: "Honey Chili Fries", Price: 120, Quantity: 1}},
		},
	}
}

func TestComputeStatsTotals(t *testing.T) {
	s := ComputeStats(testOrders(), StatsFilter{})
	assert.Equal(t, 3, s.TotalOrders)
	assert.Equal(t, int64(560), s.TotalRevenue)
	assert.InDelta(t, 560.0/3.0, s.AvgOrderValue, 0.001)
}

func TestComputeStatsLeaderboard(t *testing.T) {
	s := ComputeStats(testOrders(), StatsFilter{})
	require.NotEmpty(t, s.TopProducts)
	assert.Equal(t, "Honey Chili Fries", s.TopProducts[0].Name)
	assert.Equal(t, 3, s.TopProducts[0].Quantity)
	assert.Equal(t, int64(360), s.TopProducts[0].Revenue)
}

func TestComputeStatsHostelCounts(t *testing.T) {
	s := ComputeStats(testOrders(), StatsFilter{})
	require.Len(t, s.HostelOrders, 2)
	assert.Equal(t, HostelOrders{Hostel: "MTR", Count: 2}, s.HostelOrders[0])
	assert.Equal(t, HostelOrders{Hostel: "Nilima", Count: 1}, s.HostelOrders[1])
}

func TestComputeStatsDailyRevenueSorted(t *testing.T) {
	s := ComputeStats(testOrders(), StatsFilter{})
	require.Len(t, s.DailyRevenue, 2)
	assert.Equal(t, DailyRevenue{Date: "2026-01-10", Revenue: 240}, s.DailyRevenue[0])
	assert.Equal(t, DailyRevenue{Date: "2026-01-11", Revenue: 320}, s.DailyRevenue[1])
}

func TestFilterOrdersForStats(t *testing.T) {
	orders := testOrders()
	tests := []struct {
		name    string
		filter  StatsFilter
		wantIDs []int64
	}{
		{"no filter", StatsFilter{}, []int64{1, 2, 3}},
		{"hostel", StatsFilter{Hostel: "Nilima"}, []int64{2}},
		{"hostel all sentinel", StatsFilter{Hostel: "all"}, []int64{1, 2, 3}},
		{"product", StatsFilter{Product: "Cold Coffee"}, []int64{2}},
		{"date range", StatsFilter{Start: day("2026-01-11"), End: day("2026-01-12")}, []int64{2, 3}},
		{"start bound excludes earlier", StatsFilter{Start: day("2026-01-11")}, []int64{2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterOrdersForStats(orders, tt.filter)
			ids := make([]int64, len(got))
			for i, o := range got {
				ids[i] = o.ID
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestUniqueProducts(t *testing.T) {
	got := UniqueProducts(testOrders())
	assert.Equal(t, []string{"Chicken Chow Mein", "Cold Coffee", "Honey Chili Fries"}, got)
}
