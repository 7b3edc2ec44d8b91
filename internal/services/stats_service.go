package services

import (
	"sort"
	"time"

	"elpunto/internal/domain"
	"elpunto/internal/repos"
)

// StatsService aggregates the order backup records for the dashboard.
// Cancelled orders are excluded from sales figures.
type StatsService struct {
	Orders *repos.OrderRepo
}

func NewStatsService(orders *repos.OrderRepo) *StatsService {
	return &StatsService{Orders: orders}
}

type ProductCount struct {
	Name     string
	Quantity int
}

type DayCount struct {
	Day    string // Mon..Sun
	Orders int
}

type MonthStats struct {
	TotalSales  float64
	TotalOrders int
	TopProducts []ProductCount
	OrdersByDay []DayCount
}

// MonthToDate aggregates orders from the first of the current month.
func (s *StatsService) MonthToDate(now time.Time) (MonthStats, error) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	orders, err := s.Orders.ListSince(from)
	if err != nil {
		return MonthStats{}, err
	}

	var st MonthStats
	productQty := map[string]int{}
	dayOrders := map[string]int{}

	for _, o := range orders {
		if o.Status == domain.OrderCancelled {
			continue
		}
		st.TotalOrders++
		st.TotalSales += o.Total
		for _, it := range o.Items() {
			productQty[it.Name] += it.Quantity
		}
		if t, err := time.Parse("2006-01-02 15:04:05", o.CreatedAt); err == nil {
			dayOrders[t.Weekday().String()[:3]]++
		}
	}

	for name, qty := range productQty {
		st.TopProducts = append(st.TopProducts, ProductCount{Name: name, Quantity: qty})
	}
	sort.Slice(st.TopProducts, func(i, j int) bool {
		if st.TopProducts[i].Quantity != st.TopProducts[j].Quantity {
			return st.TopProducts[i].Quantity > st.TopProducts[j].Quantity
		}
		return st.TopProducts[i].Name < st.TopProducts[j].Name
	})
	if len(st.TopProducts) > 5 {
		st.TopProducts = st.TopProducts[:5]
	}

	for _, day := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		if n := dayOrders[day]; n > 0 {
			st.OrdersByDay = append(st.OrdersByDay, DayCount{Day: day, Orders: n})
		}
	}
	return st, nil
}
