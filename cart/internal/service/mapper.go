package service

import (
	"github.com/Alturino/storefront/cart/internal/aggregate"
	"github.com/Alturino/storefront/cart/internal/store"
	"github.com/Alturino/storefront/cart/pkg/response"
	orderReq "github.com/Alturino/storefront/order/pkg/request"
)

func lineItemResponse(item aggregate.LineItem) response.LineItem {
	return response.LineItem{
		Product:       item.Product.Product,
		Customization: item.Product.Customization,
		Fingerprint:   item.Key().Fingerprint,
		Quantity:      item.Quantity,
		LineTotal:     item.LineTotal(),
		LineSubTotal:  item.LineSubTotal(),
	}
}

func cartResponse(summary store.Summary) response.Cart {
	items := make([]response.LineItem, len(summary.Items))
	for i, item := range summary.Items {
		items[i] = lineItemResponse(item)
	}
	return response.Cart{
		Items:         items,
		TotalQuantity: summary.TotalQuantity,
		SubTotal:      summary.SubTotal,
		Total:         summary.Total,
		Savings:       summary.Savings,
	}
}

func orderItems(items []aggregate.LineItem) []orderReq.OrderItem {
	orderItems := make([]orderReq.OrderItem, len(items))
	for i, item := range items {
		orderItems[i] = orderReq.OrderItem{
			Product:       item.Product.Product,
			Customization: item.Product.Customization,
			Quantity:      item.Quantity,
		}
	}
	return orderItems
}

func orderTotals(summary store.Summary) orderReq.Totals {
	return orderReq.Totals{
		TotalQuantity: summary.TotalQuantity,
		SubTotal:      summary.SubTotal,
		Total:         summary.Total,
		Savings:       summary.Savings,
	}
}
