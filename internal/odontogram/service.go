package odontogram

import (
	"context"

	"github.com/google/uuid"

	"github.com/ataboada/clinica-core/internal/clock"
	"github.com/ataboada/clinica-core/internal/model"
	"github.com/ataboada/clinica-core/internal/store"
	"github.com/ataboada/clinica-core/pkg/logging"
)

// Service maintains the one live per-patient tooth map. Historical state
// lives in diagnostic-session snapshots, not here.
type Service struct {
	store  *store.Store
	now    clock.Clock
	logger *logging.Logger
}

// NewService constructs an odontogram service.
func NewService(st *store.Store, now clock.Clock, logger *logging.Logger) *Service {
	if st == nil {
		panic("odontogram: store required")
	}
	if now == nil {
		now = clock.System
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: st, now: now, logger: logger}
}

// Current returns the live record's details for the patient, or an empty
// list when no record exists yet.
func (s *Service) Current(patientID string) []model.OdontogramDetail {
	rec, ok := s.store.Odontogram(patientID)
	if !ok {
		return nil
	}
	return rec.Details
}

// SaveSnapshot overwrites the patient's live record wholesale with a fresh
// id and timestamp. The detail list is validated defensively; a list built
// through ApplyEdit always passes.
func (s *Service) SaveSnapshot(ctx context.Context, patientID string, details []model.OdontogramDetail) (*model.OdontogramRecord, error) {
	if _, ok := s.store.PatientByID(patientID); !ok {
		return nil, ErrPatientNotFound
	}
	if err := Validate(details); err != nil {
		return nil, err
	}

	rec := model.OdontogramRecord{
		ID:        uuid.NewString(),
		PatientID: patientID,
		UpdatedAt: s.now(),
		Details:   model.CloneDetails(details),
	}
	err := s.store.Update(ctx, func(d *model.Snapshot) error {
		for i := range d.OdontogramRecords {
			if d.OdontogramRecords[i].PatientID == patientID {
				d.OdontogramRecords[i] = rec
				return nil
			}
		}
		d.OdontogramRecords = append(d.OdontogramRecords, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("odontogram saved",
		"record_id", rec.ID,
		"patient_id", patientID,
		"findings", len(rec.Details),
	)
	return &rec, nil
}
