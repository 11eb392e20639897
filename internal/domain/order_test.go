package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"uaifood/internal/domain"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	all := []domain.OrderStatus{
		domain.StatusPending, domain.StatusPreparing, domain.StatusDelivering,
		domain.StatusDelivered, domain.StatusCancelled,
	}
	allowed := map[[2]domain.OrderStatus]bool{
		{domain.StatusPending, domain.StatusPreparing}: true,
		{domain.StatusPending, domain.StatusCancelled}: true,
		{domain.StatusPreparing, domain.StatusDelivering}: true,
		{domain.StatusPreparing, domain.StatusCancelled}: true,
		{domain.StatusDelivering, domain.StatusDelivered}: true,
		{domain.StatusDelivering, domain.StatusCancelled}: true,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]domain.OrderStatus{from, to}]
			assert.Equalf(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.True(t, domain.StatusDelivered.IsTerminal())
	assert.True(t, domain.StatusCancelled.IsTerminal())
	assert.False(t, domain.StatusPending.IsTerminal())
	assert.False(t, domain.OrderStatus("LOST").IsTerminal())
	assert.False(t, domain.OrderStatus("LOST").IsValid())
	assert.False(t, domain.OrderStatus("LOST").CanTransitionTo(domain.StatusPending))
}

func TestPaymentMethod_IsValid(t *testing.T) {
	for _, p := range []domain.PaymentMethod{"CASH", "DEBIT", "CREDIT", "PIX"} {
		assert.True(t, p.IsValid())
	}
	assert.False(t, domain.PaymentMethod("BOLETO").IsValid())
	assert.False(t, domain.PaymentMethod("pix").IsValid())
}

func TestOrder_ToMyOrderDropsClient(t *testing.T) {
	order := domain.Order{
		ID:     "o-1",
		Status: domain.StatusPending,
		Client: &domain.OrderClient{Nome: "Maria", Phone: "31999998888"},
		Items:  []domain.OrderItem{{ItemID: "1", Quantity: 2}},
	}

	my := order.ToMyOrder()

	assert.Equal(t, "o-1", my.ID)
	assert.Len(t, my.Items, 1)
}
