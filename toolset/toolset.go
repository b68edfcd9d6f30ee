// Package toolset holds the tools the CLI registers out of the box: an echo
// tool and the two placeholder funding-rate tools. The funding data is fixed;
// no market data is fetched.
package toolset

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/Gurpartap/reactagent/agent"
)

const (
	EchoName              = "Echo"
	GetFundingRatesName   = "GetFundingRates"
	EvaluateArbitrageName = "EvaluateArbitrage"

	DefaultArbitrageThreshold = 0.03
)

// FundingRate is a perpetual pair's funding rate in percent.
type FundingRate struct {
	Pair string
	Rate float64
}

// DefaultRates is the fixed sample the funding tools report.
func DefaultRates() []FundingRate {
	return []FundingRate{
		{Pair: "BTC-USDT", Rate: 0.031},
		{Pair: "ETH-USDT", Rate: -0.015},
		{Pair: "ARB-USDT", Rate: 0.082},
		{Pair: "DOGE-USDT", Rate: 0.005},
	}
}

// Demo returns the default tool set in catalog order.
func Demo() []agent.Tool {
	rates := DefaultRates()
	return []agent.Tool{
		FundingRates(rates),
		Arbitrage(rates, DefaultArbitrageThreshold),
		Echo(),
	}
}

func Echo() agent.Tool {
	return agent.Tool{
		Name:        EchoName,
		Description: "Returns its input unchanged. Use this to repeat a value verbatim",
		Invoker: agent.InvokerFunc(func(_ context.Context, input string) (string, error) {
			return input, nil
		}),
	}
}

func FundingRates(rates []FundingRate) agent.Tool {
	rates = append([]FundingRate(nil), rates...)
	return agent.Tool{
		Name:        GetFundingRatesName,
		Description: "Use this to get current funding rates for crypto perpetual pairs",
		Invoker: agent.InvokerFunc(func(context.Context, string) (string, error) {
			lines := make([]string, len(rates))
			for i, rate := range rates {
				lines[i] = rate.Pair + ": " + formatRate(rate.Rate) + "%"
			}
			return strings.Join(lines, "\n"), nil
		}),
	}
}

func Arbitrage(rates []FundingRate, threshold float64) agent.Tool {
	rates = append([]FundingRate(nil), rates...)
	return agent.Tool{
		Name:        EvaluateArbitrageName,
		Description: "Use this to check if there's any arbitrage opportunity based on funding rates",
		Invoker: agent.InvokerFunc(func(context.Context, string) (string, error) {
			var opportunities []string
			for _, rate := range rates {
				if math.Abs(rate.Rate) > threshold {
					opportunities = append(opportunities, rate.Pair)
				}
			}
			if len(opportunities) == 0 {
				return "🔴 No arbitrage opportunities above " + formatRate(threshold) + "% funding rate", nil
			}
			return "🟢 Arbitrage opportunities found: " + strings.Join(opportunities, ", "), nil
		}),
	}
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}
