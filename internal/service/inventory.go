package service

import (
	"fmt"
	"sort"
	"strings"

	"swag-shop/internal/domain"
)

// SwagAttrs are the admin-supplied fields of a swag. Quantity is a pointer so
// an absent value can be told apart from zero.
type SwagAttrs struct {
	Name     string `json:"name"`
	Quantity *int   `json:"quantity"`
	Category string `json:"category"`
	Image    string `json:"image"`
}

func (a SwagAttrs) validate() error {
	var missing []string
	if strings.TrimSpace(a.Name) == "" {
		missing = append(missing, "name")
	}
	if a.Quantity == nil {
		missing = append(missing, "quantity")
	}
	if strings.TrimSpace(a.Category) == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	if *a.Quantity < 0 {
		return fmt.Errorf("%w: quantity must be >= 0", ErrValidation)
	}
	return nil
}

func (a SwagAttrs) toSwag(id int) domain.Swag {
	return domain.Swag{
		ID:       id,
		Name:     a.Name,
		Quantity: *a.Quantity,
		Category: a.Category,
		Image:    a.Image,
	}
}

// ApplyOrderDeltas subtracts requested quantities from matching swags.
// Ids with no catalog entry are ignored and stock may go negative; callers
// wanting a floor run CheckStock first. The input slice is not modified.
func ApplyOrderDeltas(catalog []domain.Swag, requested map[int]int) []domain.Swag {
	out := make([]domain.Swag, len(catalog))
	for i, s := range catalog {
		if q, ok := requested[s.ID]; ok {
			s.Quantity -= q
		}
		out[i] = s
	}
	return out
}

// CheckStock fails with ErrInsufficientStock when any known swag would drop
// below zero. Unknown ids are ignored, as in ApplyOrderDeltas.
func CheckStock(catalog []domain.Swag, requested map[int]int) error {
	var short []string
	for _, s := range catalog {
		if q, ok := requested[s.ID]; ok && s.Quantity-q < 0 {
			short = append(short, fmt.Sprintf("%d (have %d, want %d)", s.ID, s.Quantity, q))
		}
	}
	if len(short) > 0 {
		return fmt.Errorf("%w: %s", ErrInsufficientStock, strings.Join(short, "; "))
	}
	return nil
}

// NextSwagID is max(id)+1, or 1 for an empty catalog.
func NextSwagID(catalog []domain.Swag) int {
	next := 1
	for _, s := range catalog {
		if s.ID >= next {
			next = s.ID + 1
		}
	}
	return next
}

func CreateSwag(catalog []domain.Swag, attrs SwagAttrs) (domain.Swag, error) {
	if err := attrs.validate(); err != nil {
		return domain.Swag{}, err
	}
	return attrs.toSwag(NextSwagID(catalog)), nil
}

// EditSwag replaces the swag with the given id. The id always comes from the
// caller, never from attrs. found is false when no swag matched, in which
// case the catalog is returned unchanged.
func EditSwag(catalog []domain.Swag, id int, attrs SwagAttrs) (out []domain.Swag, edited domain.Swag, found bool, err error) {
	if err := attrs.validate(); err != nil {
		return catalog, domain.Swag{}, false, err
	}
	edited = attrs.toSwag(id)
	out = make([]domain.Swag, len(catalog))
	for i, s := range catalog {
		if s.ID == id {
			s = edited
			found = true
		}
		out[i] = s
	}
	return out, edited, found, nil
}

// DeleteSwag drops the swag with the given id; unknown ids are a no-op.
func DeleteSwag(catalog []domain.Swag, id int) (out []domain.Swag, found bool) {
	out = make([]domain.Swag, 0, len(catalog))
	for _, s := range catalog {
		if s.ID == id {
			found = true
			continue
		}
		out = append(out, s)
	}
	return out, found
}

// orderLines turns the request map into the ordered item list stored on the
// OrderRecord (ascending swag id).
func orderLines(requested map[int]int) []domain.OrderLine {
	lines := make([]domain.OrderLine, 0, len(requested))
	for id, q := range requested {
		lines = append(lines, domain.OrderLine{SwagID: id, Quantity: q})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].SwagID < lines[j].SwagID })
	return lines
}
