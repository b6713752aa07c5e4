package auth

import (
	"github.com/shopspring/decimal"
	"github.com/yeye/icms-api/internal/application/ports"
)

var (
	scoreMin = decimal.Zero
	scoreMax = decimal.NewFromInt(1)
)

// scoresFrom obtiene confianza y vivacidad de la respuesta del comparador.
// Sin confidence explícito se usa 1 - distance. Sin liveness explícito se asume 1,
// porque el servicio rechaza rostros no vivos antes de comparar.
func scoresFrom(r *ports.FaceVerification) (confidence, liveness decimal.Decimal) {
	confidence, liveness = scoreMin, scoreMax
	if r == nil {
		return scoreMin, scoreMin
	}
	switch {
	case r.Confidence != nil:
		confidence = decimal.NewFromFloat(*r.Confidence)
	case r.Distance != nil:
		confidence = scoreMax.Sub(decimal.NewFromFloat(*r.Distance))
	}
	if r.Liveness != nil {
		liveness = decimal.NewFromFloat(*r.Liveness)
	}
	return clampScore(confidence), clampScore(liveness)
}

func clampScore(d decimal.Decimal) decimal.Decimal {
	if d.LessThan(scoreMin) {
		return scoreMin
	}
	if d.GreaterThan(scoreMax) {
		return scoreMax
	}
	return d.Round(4)
}
