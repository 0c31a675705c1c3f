package engine

import (
	"github.com/gnaf-verify/internal/debug"
	"github.com/gnaf-verify/internal/refdata"
)

// houseHit is a resolved property on one street of the valid subset.
type houseHit struct {
	Street subsetStreet
	House  refdata.House
	Number int
	Exact  bool
}

// resolveHouse walks the valid street subset in weight order looking for
// the requested house number, exactly first, then within the nearby
// window. A nearby hit on a much better-ranked street can beat an exact
// hit on a weak one.
func (r *request) resolveHouse() *houseHit {
	if !r.hasHouse || len(r.subsetValidStreets) == 0 {
		return nil
	}

	var exact, near *houseHit
	for i := range r.subsetValidStreets {
		s := r.subsetValidStreets[i]
		e, n := r.findHouseOn(s)
		if exact == nil && e != nil {
			exact = e
		}
		if near == nil && n != nil {
			near = n
		}
		if exact != nil && near != nil {
			break
		}
	}

	chosen := exact
	if exact == nil {
		chosen = near
	} else if near != nil && near.Street.Weight > 2*exact.Street.Weight {
		chosen = near
	}
	if chosen == nil {
		return nil
	}

	// A hit outside the best-weighted street must hold its weight against
	// that street, or the street-level result stands.
	best := r.subsetValidStreets[0]
	if !r.holdsAgainstBest(chosen, best) {
		if exact != nil && chosen != exact && r.holdsAgainstBest(exact, best) {
			chosen = exact
		} else {
			debug.Output(r.trace, "house on %s (weight %d) rejected against best street %s (weight %d)",
				chosen.Street.PID, chosen.Street.Weight, best.PID, best.Weight)
			return nil
		}
	}

	if !chosen.Exact {
		r.addMessage("house number not found, nearest house used")
	}
	if chosen.Street.PID != r.subsetValidStreets[0].PID {
		r.addMessage("possible house in different street")
	}
	debug.Output(r.trace, "house %d resolved to %d on %s (exact=%v)",
		r.houseNo, chosen.Number, chosen.Street.PID, chosen.Exact)
	return chosen
}

// holdsAgainstBest applies the cross-street tolerance: a hit on the
// best-weighted street always stands; one on any other street needs a
// weight within ×1.1 of the best street's for an exact hit, ×1.2 for a
// nearby one.
func (r *request) holdsAgainstBest(h *houseHit, best subsetStreet) bool {
	if h.Street.PID == best.PID {
		return true
	}
	tol := 11
	if !h.Exact {
		tol = 12
	}
	return tol*h.Street.Weight >= 10*best.Weight
}

// findHouseOn looks for the requested number on one street: an exact hit
// (any number inside a supplied range counts) and the nearest hit within
// the window. The window steps by two to stay on the same side of the
// street, or by one on cul-de-sac style types.
func (r *request) findHouseOn(s subsetStreet) (exact, near *houseHit) {
	houses := r.ds.Houses[s.PID]
	if len(houses) == 0 {
		return nil, nil
	}

	step := 2
	if st := r.ds.StreetTypes[s.Entry.Key.Type]; st != nil && st.StepOne {
		step = 1
	}

	hi := r.houseNo
	if r.isRange && r.houseNo2 > hi {
		hi = r.houseNo2
	}
	for n := r.houseNo; n <= hi; n += step {
		if h, ok := houses[n]; ok && h.IsLot == r.isLot {
			return &houseHit{Street: s, House: h, Number: n, Exact: true}, nil
		}
	}

	for d := step; d <= 5*step; d += step {
		for _, n := range []int{r.houseNo - d, r.houseNo + d} {
			if n <= 0 {
				continue
			}
			if h, ok := houses[n]; ok && h.IsLot == r.isLot {
				return nil, &houseHit{Street: s, House: h, Number: n}
			}
		}
	}
	return nil, nil
}

// chooseStreet picks the best-weighted street row when no house number
// was supplied or none could be resolved.
func (r *request) chooseStreet() *subsetStreet {
	if len(r.subsetValidStreets) == 0 {
		return nil
	}
	return &r.subsetValidStreets[0]
}
