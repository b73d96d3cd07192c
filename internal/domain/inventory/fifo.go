// Package inventory contiene los servicios de dominio puros del libro de lotes:
// planificación FIFO, precio de línea y costo de inventario. No toca el almacenamiento.
package inventory

import (
	"sort"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// Take es la porción que un lote entrega a una solicitud.
type Take struct {
	Lot   *entity.Lot
	Units int64
}

// SortFIFO ordena por fecha de vencimiento ascendente (sin fecha al final) y luego por id.
func SortFIFO(lots []*entity.Lot) {
	sort.SliceStable(lots, func(i, j int) bool {
		a, b := lots[i].ExpirationDate, lots[j].ExpirationDate
		switch {
		case a == nil && b != nil:
			return false
		case a != nil && b == nil:
			return true
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		}
		return lots[i].ID < lots[j].ID
	})
}

// PlanFIFO recorre los lotes en orden FIFO tomando min(restante, saldo) de cada uno.
// No modifica los lotes. Los lotes con saldo no positivo se omiten.
// Devuelve las porciones y el total tomado; si taken < requested el llamador debe fallar
// con stock insuficiente sin escribir nada.
func PlanFIFO(lots []*entity.Lot, requested int64) ([]Take, int64) {
	ordered := make([]*entity.Lot, 0, len(lots))
	for _, l := range lots {
		if l.Active && l.Units > 0 {
			ordered = append(ordered, l)
		}
	}
	SortFIFO(ordered)

	var takes []Take
	remaining := requested
	for _, l := range ordered {
		if remaining <= 0 {
			break
		}
		n := l.Units
		if remaining < n {
			n = remaining
		}
		takes = append(takes, Take{Lot: l, Units: n})
		remaining -= n
	}
	return takes, requested - max(remaining, 0)
}

// Available suma el saldo de los lotes activos con saldo positivo.
func Available(lots []*entity.Lot) int64 {
	var total int64
	for _, l := range lots {
		if l.Active && l.Units > 0 {
			total += l.Units
		}
	}
	return total
}
