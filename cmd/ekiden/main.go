package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ekiden-club/internal/cache"
	"ekiden-club/internal/config"
	"ekiden-club/internal/drive"
	"ekiden-club/internal/server"
	"ekiden-club/internal/sheets"
	"ekiden-club/internal/tgbot"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sheetsClient, err := sheets.New(ctx, cfg.GoogleServiceAccountJSON, cfg.SpreadsheetID, cache.New(cfg.CacheTTL))
	if err != nil {
		log.Fatalf("sheets: %v", err)
	}
	log.Printf("sheets: spreadsheet %s", sheetsClient.SpreadsheetID())
	if err := sheetsClient.EnsureHeaders(ctx); err != nil {
		log.Printf("ensure headers: %v", err)
	}

	var photos server.PhotoStore
	if cfg.DrivePhotoFolderID != "" {
		driveClient, err := drive.New(ctx, cfg.GoogleServiceAccountJSON, cfg.DrivePhotoFolderID)
		if err != nil {
			log.Fatalf("drive: %v", err)
		}
		photos = driveClient
	} else {
		log.Println("DRIVE_PHOTO_FOLDER_ID is empty, photo upload disabled")
	}

	httpSrv := server.New(cfg, sheetsClient, photos)

	// Start HTTP server
	go func() {
		log.Printf("HTTP listening on %s", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server: %v", err)
		}
	}()

	// Start Telegram
	if cfg.TelegramToken != "" {
		botApp, err := tgbot.New(cfg, sheetsClient)
		if err != nil {
			log.Fatalf("telegram: %v", err)
		}
		go func() {
			if err := botApp.Run(ctx); err != nil && err != context.Canceled {
				log.Printf("bot stopped: %v", err)
			}
		}()
	}

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	cancel()
	ctxTimeout, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = httpSrv.Shutdown(ctxTimeout)

	log.Println("bye")
}
