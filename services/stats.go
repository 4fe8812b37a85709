package services

import (
	"sort"
	"time"

	"cafe-jampot/models"
)

// StatsFilter narrows the order history before aggregation. Zero Start/End
// mean no date bound; empty Hostel/Product mean no filter (same as "all").
type StatsFilter struct {
	Start   time.Time
	End     time.Time
	Hostel  string
	Product string
}

type ProductSales struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Revenue  int64  `json:"revenue"`
}

type HostelOrders struct {
	Hostel string `json:"hostel"`
	Count  int    `json:"count"`
}

type DailyRevenue struct {
	Date    string `json:"date"` // yyyy-mm-dd
	Revenue int64  `json:"revenue"`
}

type Stats struct {
	TotalOrders   int            `json:"totalOrders"`
	TotalRevenue  int64          `json:"totalRevenue"`
	AvgOrderValue float64        `json:"avgOrderValue"`
	TopProducts   []ProductSales `json:"topProducts"`
	HostelOrders  []HostelOrders `json:"hostelOrders"`
	DailyRevenue  []DailyRevenue `json:"dailyRevenue"`
}

const topProductsLimit = 10

// FilterOrdersForStats applies the date/hostel/product filters.
func FilterOrdersForStats(orders []models.Order, f StatsFilter) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if !f.Start.IsZero() && o.CreatedAt.Before(f.Start) {
			continue
		}
		if !f.End.IsZero() && o.CreatedAt.After(f.End) {
			continue
		}
		if f.Hostel != "" && f.Hostel != "all" && o.HostelName != f.Hostel {
			continue
		}
		if f.Product != "" && f.Product != "all" && !orderHasProduct(o, f.Product) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func orderHasProduct(o models.Order, name string) bool {
	for _, it := range o.Items {
		if it.Name == name {
			return true
		}
	}
	return false
}

// ComputeStats aggregates revenue, the product leaderboard (top 10 by
// revenue), per-hostel order counts and the daily revenue series.
func ComputeStats(orders []models.Order, f StatsFilter) Stats {
	filtered := FilterOrdersForStats(orders, f)

	var s Stats
	s.TotalOrders = len(filtered)

	productSales := make(map[string]*ProductSales)
	hostelCounts := make(map[string]int)
	daily := make(map[string]int64)

	for _, o := range filtered {
		s.TotalRevenue += o.TotalAmount
		hostelCounts[o.HostelName]++
		daily[o.CreatedAt.Format("2006-01-02")] += o.TotalAmount
		for _, it := range o.Items {
			ps, ok := productSales[it.Name]
			if !ok {
				ps = &ProductSales{Name: it.Name}
				productSales[it.Name] = ps
			}
			ps.Quantity += it.Quantity
			ps.Revenue += it.Price * int64(it.Quantity)
		}
	}

	if s.TotalOrders > 0 {
		s.AvgOrderValue = float64(s.TotalRevenue) / float64(s.TotalOrders)
	}

	for _, ps := range productSales {
		s.TopProducts = append(s.TopProducts, *ps)
	}
	sort.Slice(s.TopProducts, func(i, j int) bool {
		if s.TopProducts[i].Revenue != s.TopProducts[j].Revenue {
			return s.TopProducts[i].Revenue > s.TopProducts[j].Revenue
		}
		return s.TopProducts[i].Name < s.TopProducts[j].Name
	})
	if len(s.TopProducts) > topProductsLimit {
		s.TopProducts = s.TopProducts[:topProductsLimit]
	}

	for h, c := range hostelCounts {
		s.HostelOrders = append(s.HostelOrders, HostelOrders{Hostel: h, Count: c})
	}
	sort.Slice(s.HostelOrders, func(i, j int) bool {
		if s.HostelOrders[i].Count != s.HostelOrders[j].Count {
			return s.HostelOrders[i].Count > s.HostelOrders[j].Count
		}
		return s.HostelOrders[i].Hostel < s.HostelOrders[j].Hostel
	})

	for d, r := range daily {
		s.DailyRevenue = append(s.DailyRevenue, DailyRevenue{Date: d, Revenue: r})
	}
	sort.Slice(s.DailyRevenue, func(i, j int) bool {
		return s.DailyRevenue[i].Date < s.DailyRevenue[j].Date
	})

	return s
}

// UniqueProducts lists every product name seen in the order history,
// sorted, for the dashboard's product filter dropdown.
func UniqueProducts(orders []models.Order) []string {
	seen := make(map[string]struct{})
	for _, o := range orders {
		for _, it := range o.Items {
			seen[it.Name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
