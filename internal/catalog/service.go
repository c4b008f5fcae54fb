package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ataboada/clinica-core/internal/model"
	"github.com/ataboada/clinica-core/internal/store"
	"github.com/ataboada/clinica-core/pkg/logging"
)

// Service owns the clinic's price list. The CIE-10 lookup lives next door in
// cie10.go and needs no state.
type Service struct {
	store  *store.Store
	logger *logging.Logger
}

// NewService constructs a catalog service.
func NewService(st *store.Store, logger *logging.Logger) *Service {
	if st == nil {
		panic("catalog: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: st, logger: logger}
}

// Procedures returns the price list.
func (s *Service) Procedures() []model.ProcedureItem {
	return s.store.Procedures()
}

// ConsultationReasons returns just the procedure names, used to populate the
// booking form's reason picker.
func (s *Service) ConsultationReasons() []string {
	procedures := s.store.Procedures()
	out := make([]string, 0, len(procedures))
	for _, p := range procedures {
		out = append(out, p.Name)
	}
	return out
}

// PriceFor looks up the base price for a procedure name, used to auto-fill
// cost fields.
func (s *Service) PriceFor(name string) (float64, bool) {
	for _, p := range s.store.Procedures() {
		if strings.EqualFold(p.Name, name) {
			return p.Price, true
		}
	}
	return 0, false
}

// AddProcedure appends a new price-list entry.
func (s *Service) AddProcedure(ctx context.Context, name string, price float64) (*model.ProcedureItem, error) {
	if strings.TrimSpace(name) == "" || price < 0 {
		return nil, ErrInvalidProcedure
	}
	item := model.ProcedureItem{
		ID:    uuid.NewString(),
		Name:  name,
		Price: price,
	}
	err := s.store.Update(ctx, func(d *model.Snapshot) error {
		d.Procedures = append(d.Procedures, item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("procedure added", "procedure_id", item.ID, "name", item.Name, "price", item.Price)
	return &item, nil
}

// RemoveProcedure deletes a price-list entry. Historical treatments keep the
// procedure name they were recorded with.
func (s *Service) RemoveProcedure(ctx context.Context, id string) error {
	err := s.store.Update(ctx, func(d *model.Snapshot) error {
		for i := range d.Procedures {
			if d.Procedures[i].ID == id {
				d.Procedures = append(d.Procedures[:i], d.Procedures[i+1:]...)
				return nil
			}
		}
		return ErrProcedureNotFound
	})
	if err != nil {
		return err
	}

	s.logger.Info("procedure removed", "procedure_id", id)
	return nil
}
