package response

import "fmt"

// Rate is a single shippable option, flattened from the provider's nested
// payload. Service carries the courier code, e.g. "JNE - REG".
type Rate struct {
	Service string `json:"service"`
	Cost    int64  `json:"cost"`
	Etd     string `json:"etd"`
}

// CostEnvelope mirrors the provider's response shape. Every result holds the
// services of one courier; every service prices its cost variants as a list
// of which only the first entry is quoted to customers.
type CostEnvelope struct {
	Rajaongkir struct {
		Status struct {
			Code        int    `json:"code"`
			Description string `json:"description"`
		} `json:"status"`
		Results []CourierResult `json:"results"`
	} `json:"rajaongkir"`
}

type CourierResult struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Costs []struct {
		Service     string `json:"service"`
		Description string `json:"description"`
		Cost        []struct {
			Value int64  `json:"value"`
			Etd   string `json:"etd"`
			Note  string `json:"note"`
		} `json:"cost"`
	} `json:"costs"`
}

// Flatten walks the nested results into a flat rate list, skipping services
// the provider returned without a price.
func (e CostEnvelope) Flatten() []Rate {
	rates := []Rate{}
	for _, result := range e.Rajaongkir.Results {
		for _, cost := range result.Costs {
			if len(cost.Cost) == 0 {
				continue
			}
			rates = append(rates, Rate{
				Service: fmt.Sprintf("%s - %s", result.Code, cost.Service),
				Cost:    cost.Cost[0].Value,
				Etd:     cost.Cost[0].Etd,
			})
		}
	}
	return rates
}
