// Command qrbatch provisions printed sticker batches: it inserts QR rows with
// fresh codes and writes a CSV the print shop turns into physical stickers.
package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"

	"adsouq/internal/config"
	"adsouq/internal/models"
	"adsouq/internal/repositories"
	"adsouq/internal/utils"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const maxCodeAttempts = 8

func main() {
	root := &cobra.Command{
		Use:   "qrbatch",
		Short: "Provision QR sticker batches",
	}
	root.AddCommand(generateCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	var (
		batch   string
		count   int
		outfile string
		domain  string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create a batch of unassigned QR codes and write the print CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("count must be positive, got %d", count)
			}

			config.LoadEnv()
			if err := repositories.InitDB(); err != nil {
				return fmt.Errorf("database init failed: %w", err)
			}
			if domain == "" {
				domain = config.PublicBaseURL()
			}

			codes, err := provisionBatch(repositories.DB, batch, count)
			if err != nil {
				return err
			}
			if err := writeCSV(outfile, domain, codes); err != nil {
				return err
			}

			log.Printf("batch %q: %d codes written to %s", batch, len(codes), outfile)
			return nil
		},
	}

	cmd.Flags().StringVar(&batch, "batch", "", "batch label stamped on every row")
	cmd.Flags().IntVar(&count, "count", 100, "number of codes to provision")
	cmd.Flags().StringVar(&outfile, "outfile", "qr_batch.csv", "CSV output path")
	cmd.Flags().StringVar(&domain, "domain", "", "base URL printed in the CSV (defaults to PUBLIC_BASE_URL)")
	_ = cmd.MarkFlagRequired("batch")
	return cmd
}

func provisionBatch(db *gorm.DB, batch string, count int) ([]string, error) {
	codes := make([]string, 0, count)

	err := db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < count; i++ {
			code, err := uniqueStickerCode(tx)
			if err != nil {
				return err
			}
			row := models.QRCode{Code: code, Batch: batch}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			codes = append(codes, code)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return codes, nil
}

func uniqueStickerCode(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := utils.NewStickerCode()
		if err != nil {
			return "", err
		}
		var count int64
		if err := tx.Model(&models.QRCode{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique sticker code after %d attempts", maxCodeAttempts)
}

func writeCSV(path, domain string, codes []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"code", "url"}); err != nil {
		return err
	}
	for _, code := range codes {
		if err := w.Write([]string{code, domain + "/api/v1/qr/" + code}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
