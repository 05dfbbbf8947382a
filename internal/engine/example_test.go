package engine_test

import (
	"fmt"
	"time"

	"github.com/wonny/contractdesk/internal/domain"
	"github.com/wonny/contractdesk/internal/engine"
)

func ExampleFormatAddress() {
	addr := &domain.Address{Street: "Via Garibaldi 12", City: "Torino", Country: "Italia"}
	fmt.Println(engine.FormatAddress(addr))
	// Output: via garibaldi 12 torino italia
}

func ExampleFilterAndSum() {
	start := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	fee := func(v float64) *float64 { return &v }

	contracts := []domain.Contract{
		{ID: "1", Provider: "Enel", StartDate: &start, Commission: fee(120.5)},
		{ID: "2", Provider: "Enel", Commission: fee(40)},
		{ID: "3", Provider: "TIM", StartDate: &start, Commission: fee(60)},
	}

	res := engine.FilterAndSum(contracts, engine.CommissionFilter{
		Year:     engine.Only(2024),
		Month:    engine.All[int](),
		Provider: engine.Only("Enel"),
	})
	fmt.Println(res.Count, res.Total.StringFixed(2))
	// Output: 1 120.50
}
