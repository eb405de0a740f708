package services

import (
	"context"
	"strings"

	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/validation"
	"github.com/google/uuid"
)

type EnquiryService struct {
	store store.Store
	opts  options
}

func NewEnquiryService(st store.Store, opts ...Option) *EnquiryService {
	return &EnquiryService{store: st, opts: buildOptions(opts)}
}

func (s *EnquiryService) Create(ctx context.Context, req *dto.EnquiryRequest) (*models.Enquiry, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Mobile = strings.TrimSpace(req.Mobile)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	enquiry := &models.Enquiry{
		FullName:              req.FullName,
		Mobile:                req.Mobile,
		PreviousGymExperience: req.PreviousGymExperience,
		Reference:             req.Reference,
		FitnessGoal:           strings.TrimSpace(req.FitnessGoal),
		Target:                strings.TrimSpace(req.Target),
		PreferredTimeSlot:     strings.TrimSpace(req.PreferredTimeSlot),
		Note:                  req.Note,
	}
	if err := s.store.Enquiries().Create(ctx, enquiry); err != nil {
		return nil, storeErr(err, "enquiry")
	}
	s.opts.logger.InfoContext(ctx, "enquiry received", "action", "create_enquiry", "enquiry_id", enquiry.ID.String())
	return enquiry, nil
}

func (s *EnquiryService) Get(ctx context.Context, id uuid.UUID) (*models.Enquiry, error) {
	enquiry, err := s.store.Enquiries().Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, "enquiry")
	}
	return enquiry, nil
}

func (s *EnquiryService) List(ctx context.Context) ([]models.Enquiry, error) {
	enquiries, err := s.store.Enquiries().List(ctx)
	if err != nil {
		return nil, storeErr(err, "enquiry")
	}
	return enquiries, nil
}
