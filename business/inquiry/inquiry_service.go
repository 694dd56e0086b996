package inquiry

import (
	"context"
	"strings"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type InquiryRepository interface {
	Create(ctx context.Context, inquiry *domain.ProductInquiry) error
	FindByID(ctx context.Context, id uint) (domain.ProductInquiry, error)
	List(ctx context.Context, filter domain.InquiryFilter) (domain.Page[domain.ProductInquiry], error)
	Update(ctx context.Context, id uint, status domain.InquiryStatus, adminNotes string) error
	Delete(ctx context.Context, id uint) error
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Product, error)
}

type InquiryInput struct {
	Name      string `json:"name" validate:"required,max=120"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,max=30"`
	Company   string `json:"company" validate:"omitempty,max=120"`
	Message   string `json:"message" validate:"required,max=5000"`
	ProductID *uint  `json:"product_id"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

type UpdateInput struct {
	Status     domain.InquiryStatus `json:"status"`
	AdminNotes *string              `json:"admin_notes"`
}

type inquiryService struct {
	inquiryRepo InquiryRepository
	productRepo ProductRepository
	publisher   domain.Publisher
	validate    *validator.Validate
}

func NewInquiryService(inquiryRepo InquiryRepository, productRepo ProductRepository, publisher domain.Publisher) *inquiryService {
	if publisher == nil {
		publisher = domain.NopPublisher{}
	}
	return &inquiryService{
		inquiryRepo: inquiryRepo,
		productRepo: productRepo,
		publisher:   publisher,
		validate:    validator.New(),
	}
}

// CreateInquiry stores a quote request. userID is zero for anonymous
// visitors.
func (s *inquiryService) CreateInquiry(ctx context.Context, userID uint, input InquiryInput) (domain.ProductInquiry, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Message = strings.TrimSpace(input.Message)

	if input.Name == "" {
		return domain.ProductInquiry{}, domain.Errorf(domain.ErrValidation, "name is required")
	}
	if err := s.validate.Var(input.Email, "required,email"); err != nil {
		return domain.ProductInquiry{}, domain.Errorf(domain.ErrValidation, "invalid email format")
	}
	if input.Message == "" {
		return domain.ProductInquiry{}, domain.Errorf(domain.ErrValidation, "message is required")
	}
	if err := s.validate.Struct(input); err != nil {
		return domain.ProductInquiry{}, domain.Errorf(domain.ErrValidation, "%s", err.Error())
	}

	if input.ProductID != nil {
		if _, err := s.productRepo.FindByID(ctx, *input.ProductID); err != nil {
			return domain.ProductInquiry{}, err
		}
	}

	inquiry := domain.ProductInquiry{
		Reference: uuid.NewString(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     strings.TrimSpace(input.Phone),
		Company:   strings.TrimSpace(input.Company),
		Message:   input.Message,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		Status:    domain.InquiryStatusPending,
	}
	if userID != 0 {
		inquiry.UserID = &userID
	}

	if err := s.inquiryRepo.Create(ctx, &inquiry); err != nil {
		return domain.ProductInquiry{}, err
	}

	logger.Info("Inquiry created", "inquiry_id", inquiry.ID, "reference", inquiry.Reference)

	s.publisher.Publish(domain.TopicInquiryCreated, domain.InquiryEvent{
		InquiryID: inquiry.ID,
		Reference: inquiry.Reference,
		Name:      inquiry.Name,
		Email:     inquiry.Email,
		Message:   inquiry.Message,
	})

	return s.inquiryRepo.FindByID(ctx, inquiry.ID)
}

func (s *inquiryService) ListMyInquiries(ctx context.Context, userID uint, query domain.PageQuery) (domain.Page[domain.ProductInquiry], error) {
	return s.inquiryRepo.List(ctx, domain.InquiryFilter{PageQuery: query, UserID: userID})
}

func (s *inquiryService) ListInquiries(ctx context.Context, filter domain.InquiryFilter) (domain.Page[domain.ProductInquiry], error) {
	if filter.Status != "" {
		filter.Status = domain.InquiryStatus(strings.ToUpper(string(filter.Status)))
		if !filter.Status.Valid() {
			return domain.Page[domain.ProductInquiry]{}, domain.Errorf(domain.ErrValidation, "invalid inquiry status %q", filter.Status)
		}
	}
	return s.inquiryRepo.List(ctx, filter)
}

func (s *inquiryService) GetInquiry(ctx context.Context, id uint) (domain.ProductInquiry, error) {
	return s.inquiryRepo.FindByID(ctx, id)
}

func (s *inquiryService) UpdateInquiry(ctx context.Context, id uint, input UpdateInput) (domain.ProductInquiry, error) {
	inquiry, err := s.inquiryRepo.FindByID(ctx, id)
	if err != nil {
		return domain.ProductInquiry{}, err
	}

	status := inquiry.Status
	if input.Status != "" {
		status = domain.InquiryStatus(strings.ToUpper(string(input.Status)))
		if !status.Valid() {
			return domain.ProductInquiry{}, domain.Errorf(domain.ErrValidation, "invalid inquiry status %q", input.Status)
		}
	}

	notes := inquiry.AdminNotes
	if input.AdminNotes != nil {
		notes = strings.TrimSpace(*input.AdminNotes)
	}

	if err := s.inquiryRepo.Update(ctx, id, status, notes); err != nil {
		return domain.ProductInquiry{}, err
	}

	logger.Info("Inquiry updated", "inquiry_id", id, "status", status)

	return s.inquiryRepo.FindByID(ctx, id)
}

func (s *inquiryService) DeleteInquiry(ctx context.Context, id uint) error {
	return s.inquiryRepo.Delete(ctx, id)
}
