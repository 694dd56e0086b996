package inquiry

import (
	"context"
	"testing"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/internal/repository/postgres"
	"github.com/it-is-Aman/ram-enterprise/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	topics   []string
	payloads []any
}

func (p *capturePublisher) Publish(topic string, payload any) {
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
}

func TestInquiries(t *testing.T) {
	db := testutil.NewDB(t)
	pub := &capturePublisher{}
	svc := NewInquiryService(postgres.NewInquiryRepository(db), postgres.NewProductRepository(db), pub)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "asha@example.com", domain.RoleCustomer)
	category := testutil.CreateCategory(t, db, "Industrial")
	pump := testutil.CreateProduct(t, db, category.ID, "Pump", 12000, 0, 2)

	t.Run("validation", func(t *testing.T) {
		_, err := svc.CreateInquiry(ctx, 0, InquiryInput{Name: "Asha", Email: "not-an-email", Message: "hi"})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.CreateInquiry(ctx, 0, InquiryInput{Name: "Asha", Email: "asha@example.com", Message: "   "})
		assert.ErrorIs(t, err, domain.ErrValidation)

		missing := uint(9999)
		_, err = svc.CreateInquiry(ctx, 0, InquiryInput{Name: "Asha", Email: "asha@example.com", Message: "quote", ProductID: &missing})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		assert.Empty(t, pub.topics)
	})

	var created domain.ProductInquiry

	t.Run("anonymous and signed-in inquiries", func(t *testing.T) {
		anon, err := svc.CreateInquiry(ctx, 0, InquiryInput{Name: "Guest", Email: "Guest@Example.com", Message: "Do you ship abroad?"})
		require.NoError(t, err)
		assert.Nil(t, anon.UserID)
		assert.Equal(t, "guest@example.com", anon.Email)

		created, err = svc.CreateInquiry(ctx, user.ID, InquiryInput{
			Name:      "Asha",
			Email:     "asha@example.com",
			Message:   "Need 40 units",
			ProductID: &pump.ID,
			Quantity:  40,
		})
		require.NoError(t, err)
		require.NotNil(t, created.UserID)
		assert.Equal(t, user.ID, *created.UserID)
		assert.Equal(t, domain.InquiryStatusPending, created.Status)
		_, err = uuid.Parse(created.Reference)
		assert.NoError(t, err)
		require.NotNil(t, created.Product)
		assert.Equal(t, "Pump", created.Product.Name)

		require.Len(t, pub.topics, 2)
		assert.Equal(t, domain.TopicInquiryCreated, pub.topics[1])
		event, ok := pub.payloads[1].(domain.InquiryEvent)
		require.True(t, ok)
		assert.Equal(t, created.Reference, event.Reference)

		mine, err := svc.ListMyInquiries(ctx, user.ID, domain.PageQuery{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, mine.Items, 1)
	})

	t.Run("admin workflow", func(t *testing.T) {
		_, err := svc.UpdateInquiry(ctx, created.ID, UpdateInput{Status: "ARCHIVED"})
		assert.ErrorIs(t, err, domain.ErrValidation)

		notes := "called back"
		updated, err := svc.UpdateInquiry(ctx, created.ID, UpdateInput{Status: "contacted", AdminNotes: &notes})
		require.NoError(t, err)
		assert.Equal(t, domain.InquiryStatusContacted, updated.Status)
		assert.Equal(t, "called back", updated.AdminNotes)

		page, err := svc.ListInquiries(ctx, domain.InquiryFilter{Status: "pending"})
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)

		page, err = svc.ListInquiries(ctx, domain.InquiryFilter{Search: "ASHA"})
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)

		require.NoError(t, svc.DeleteInquiry(ctx, created.ID))
		_, err = svc.GetInquiry(ctx, created.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
