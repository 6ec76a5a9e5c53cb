// Seeds the billing database with a sample menu and a few orders in
// mixed payment states. Safe to run repeatedly: items that already
// exist are skipped.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"food-billing-app/internal/apperr"
	"food-billing-app/internal/client"
	"food-billing-app/internal/config"
	"food-billing-app/internal/dto"
	"food-billing-app/internal/model"
	"food-billing-app/internal/repository"
	"food-billing-app/internal/service"
)

func stock(n int) *int { return &n }

var menu = []*dto.ItemInput{
	{Name: "Butter Chicken", UnitPrice: 250, Stock: stock(20)},
	{Name: "Paneer Tikka", UnitPrice: 180, Stock: stock(15)},
	{Name: "Biryani", UnitPrice: 220, Stock: stock(25)},
	{Name: "Masala Dosa", UnitPrice: 120, Stock: stock(30)},
	{Name: "Chole Bhature", UnitPrice: 150, Stock: stock(18)},
	{Name: "Samosa", UnitPrice: 30, Stock: stock(50)},
	{Name: "Pav Bhaji", UnitPrice: 140, Stock: stock(22)},
	{Name: "Gulab Jamun", UnitPrice: 60, Stock: stock(40)},
	{Name: "Tandoori Roti", UnitPrice: 20, Stock: stock(100)},
	{Name: "Naan", UnitPrice: 35, Stock: stock(80)},
	{Name: "Chicken Tikka", UnitPrice: 200, Stock: stock(25)},
	{Name: "Malai Kofta", UnitPrice: 160, Stock: stock(20)},
	{Name: "Aloo Paratha", UnitPrice: 40, Stock: stock(40)},
	{Name: "Rasgulla", UnitPrice: 50, Stock: stock(45)},
	// Made to order, no inventory ceiling.
	{Name: "Mango Lassi", UnitPrice: 80},
	{Name: "Masala Chai", UnitPrice: 25},
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	db := client.InitDBClient(cfg)

	itemRepo := repository.NewItemRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	catalogService := service.NewCatalogService(db, itemRepo, orderRepo, cfg.Catalog.RestockQuantity)
	orderService := service.NewOrderService(db, itemRepo, orderRepo)

	ctx := context.Background()

	itemIDs := make(map[string]uint, len(menu))
	for _, in := range menu {
		item, err := catalogService.AddItem(ctx, in)
		if err != nil {
			var conflict *apperr.ConflictError
			if errors.As(err, &conflict) {
				existing, err := catalogService.GetItemByName(ctx, in.Name)
				if err != nil {
					log.Fatal(err)
				}
				itemIDs[in.Name] = existing.ID
				continue
			}
			log.Fatal(err)
		}
		itemIDs[in.Name] = item.ID
		log.Printf("added item %q (id=%d)", item.Name, item.ID)
	}

	orders := []struct {
		status string
		cancel bool
		lines  []*dto.OrderLineInput
	}{
		{status: model.StatusCompleted, lines: []*dto.OrderLineInput{
			{ItemID: itemIDs["Butter Chicken"], Quantity: 2},
			{ItemID: itemIDs["Naan"], Quantity: 4},
		}},
		{status: model.StatusCompleted, lines: []*dto.OrderLineInput{
			{ItemID: itemIDs["Biryani"], Quantity: 3},
		}},
		{status: model.StatusCompleted, lines: []*dto.OrderLineInput{
			{ItemID: itemIDs["Chole Bhature"], Quantity: 2},
			{ItemID: itemIDs["Mango Lassi"], Quantity: 2},
		}},
		{status: model.StatusPending, lines: []*dto.OrderLineInput{
			{ItemID: itemIDs["Paneer Tikka"], Quantity: 2},
			{ItemID: itemIDs["Tandoori Roti"], Quantity: 6},
		}},
		{status: model.StatusPending, lines: []*dto.OrderLineInput{
			{ItemID: itemIDs["Masala Dosa"], Quantity: 3},
			{ItemID: itemIDs["Masala Chai"], Quantity: 3},
		}},
		{status: model.StatusPending, lines: []*dto.OrderLineInput{
			{ItemID: itemIDs["Samosa"], Quantity: 10},
		}},
		{status: model.StatusPending, cancel: true, lines: []*dto.OrderLineInput{
			{ItemID: itemIDs["Gulab Jamun"], Quantity: 5},
		}},
	}

	for _, o := range orders {
		order, err := orderService.CreateOrder(ctx, &dto.CreateOrderRequest{
			Lines:         o.lines,
			PaymentStatus: o.status,
		})
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("created order %d (%s, total=%.2f)", order.ID, order.PaymentStatus, order.TotalPrice)

		if o.cancel {
			result, err := orderService.CancelOrder(ctx, order.ID)
			if err != nil {
				log.Fatal(err)
			}
			log.Printf("cancelled order %d (refund needed: %v)", result.OrderID, result.RefundNeeded)
		}
	}

	log.Println("done")
}
