package lots

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/Produccion-engine/internal/domain/entity"
)

// DefaultHorizonDays es la ventana del panel de vencimientos próximos.
const DefaultHorizonDays = 7

// Clases de urgencia según los días calendario hasta el vencimiento.
const (
	ClassExpired       = "EXPIRED"       // ya vencido
	ClassCritical      = "CRITICAL"      // 0 a 2 días
	ClassWarning       = "WARNING"       // 3 a 5 días
	ClassInformational = "INFORMATIONAL" // 6 a 7 días
)

// LotUrgency es un lote anotado con su urgencia para el panel de vencimientos.
type LotUrgency struct {
	Lot      entity.Lot
	DaysLeft int // días calendario hasta vencer; negativo si ya venció
	Class    string
}

// DaysUntilExpiration calcula los días CALENDARIO entre hoy y el vencimiento
// del lote, ignorando la hora del día de ambas fechas.
func DaysUntilExpiration(lot entity.Lot, today time.Time) int {
	exp := truncateDay(lot.ExpirationDate)
	now := truncateDay(today)
	return int(exp.Sub(now).Hours() / 24)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Classify asigna la clase de urgencia para una cantidad de días restantes.
func Classify(daysLeft int) string {
	switch {
	case daysLeft < 0:
		return ClassExpired
	case daysLeft <= 2:
		return ClassCritical
	case daysLeft <= 5:
		return ClassWarning
	default:
		return ClassInformational
	}
}

// RankByUrgency devuelve los lotes dentro de la ventana de horizonDays,
// anotados y ordenados por urgencia: los vencidos siempre primero (más
// antiguos al frente), luego los no vencidos por días restantes ascendentes.
// horizonDays <= 0 usa DefaultHorizonDays.
func RankByUrgency(lots []entity.Lot, today time.Time, horizonDays int) []LotUrgency {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	out := make([]LotUrgency, 0, len(lots))
	for _, lot := range lots {
		days := DaysUntilExpiration(lot, today)
		if days > horizonDays {
			continue
		}
		out = append(out, LotUrgency{Lot: lot, DaysLeft: days, Class: Classify(days)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		aExpired, bExpired := a.DaysLeft < 0, b.DaysLeft < 0
		if aExpired != bExpired {
			return aExpired
		}
		return a.DaysLeft < b.DaysLeft
	})
	return out
}

// Órdenes alternativos sobre la misma lista de lotes. Son variantes de
// comparador para las tablas, no algoritmos distintos.
type SortOrder string

const (
	OrderOldestFirst  SortOrder = "OLDEST_FIRST"  // fecha de producción ascendente
	OrderNewestFirst  SortOrder = "NEWEST_FIRST"  // fecha de producción descendente
	OrderAlphabetical SortOrder = "ALPHABETICAL"  // nombre de producto, colación española
	OrderQuantityDesc SortOrder = "QUANTITY_DESC" // cantidad restante descendente
)

var spanishCollator = collate.New(language.Spanish, collate.IgnoreCase)

// SortLots devuelve una copia de los lotes con el orden pedido.
func SortLots(lots []entity.Lot, order SortOrder) []entity.Lot {
	out := make([]entity.Lot, len(lots))
	copy(out, lots)

	switch order {
	case OrderOldestFirst:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ProductionDate.Before(out[j].ProductionDate)
		})
	case OrderNewestFirst:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ProductionDate.After(out[j].ProductionDate)
		})
	case OrderAlphabetical:
		sort.SliceStable(out, func(i, j int) bool {
			return spanishCollator.CompareString(out[i].ProductName, out[j].ProductName) < 0
		})
	case OrderQuantityDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Remaining().GreaterThan(out[j].Remaining())
		})
	}
	return out
}
