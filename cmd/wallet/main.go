package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/DanisAlfonso/remittance-app-sub000/internal/api"
	"github.com/DanisAlfonso/remittance-app-sub000/internal/config"
	"github.com/DanisAlfonso/remittance-app-sub000/internal/favorites"
	"github.com/DanisAlfonso/remittance-app-sub000/internal/logging"
	"github.com/DanisAlfonso/remittance-app-sub000/internal/recipient"
	"github.com/DanisAlfonso/remittance-app-sub000/internal/storage"
	"github.com/DanisAlfonso/remittance-app-sub000/internal/wallet"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("wallet", cfg.LogLevel, cfg.AppEnv)

	kv, err := storage.OpenSQLite(cfg.SecureStorePath)
	if err != nil {
		slog.Error("failed to open secure store", "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	client := api.New(cfg.BackendURL, time.Duration(cfg.BackendTimeoutS)*time.Second)
	favs := favorites.NewRegistry(kv)
	store := wallet.NewStore(client, kv, favs)
	engine := recipient.NewEngine(cfg.RecentRecipients)

	store.Hydrate()

	userID := os.Getenv("WALLET_USER_ID")
	if userID == "" {
		userID = "demo-user"
	}
	store.SetUserID(userID)

	ctx := context.Background()
	store.LoadAccounts(ctx)
	if msg := store.Err(); msg != "" {
		slog.Error("account load reported an error", "message", msg)
		os.Exit(1)
	}

	fmt.Println("Accounts:")
	for _, a := range store.Accounts() {
		marker := " "
		if a.ID == store.SelectedID() {
			marker = "*"
		}
		fmt.Printf("  %s %-4s %-20s %s\n", marker, a.Currency, a.Name, a.Number())
	}

	if selected := store.Selected(); selected != nil {
		store.RefreshBalance(ctx, selected.ID)
		if bal := store.CurrentBalance(); bal != nil {
			fmt.Printf("\nBalance: %s %s\n", bal.Amount.StringFixed(2), bal.Currency)
		}

		transfers, err := client.AllTransfers(ctx, cfg.HistoryPageSize)
		if err != nil {
			slog.Error("transfer history fetch failed", "error", err)
			os.Exit(1)
		}

		fmt.Println("\nRecent recipients:")
		list := engine.Derive(transfers, selected.Currency, favs, recipient.Filter{Tab: recipient.TabRecent})
		for _, r := range list {
			fav := " "
			if r.IsFavorite {
				fav = "★"
			}
			fmt.Printf("  %s %-20s %s %s  (%s)\n", fav, r.Name, r.LastAmount.StringFixed(2), r.TargetCurrency, r.LastUsed)
		}
	}
}
