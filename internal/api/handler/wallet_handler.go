package handler

import (
	"bytes"
	"image/png"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paelladev/gigboard-be/internal/api/dto"
	qrcode "github.com/skip2/go-qrcode"
)

// GetWallet handles GET /api/v1/wallet
// Returns the operating wallet's address, chain and stablecoin balance.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	summary, err := h.wallet.Summary(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get wallet summary", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to resolve operating wallet",
		})
		return
	}

	c.JSON(http.StatusOK, dto.WalletSummaryResponse{
		Address: summary.Address,
		Chain:   summary.Chain,
		Balance: summary.Balance,
		Symbol:  summary.Symbol,
	})
}

// GetWalletQR handles GET /api/v1/wallet/qr
// Renders the operating wallet address as a PNG QR code so the testnet
// wallet can be funded from a phone.
func (h *WalletHandler) GetWalletQR(c *gin.Context) {
	summary, err := h.wallet.Summary(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get wallet summary", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to resolve operating wallet",
		})
		return
	}

	qr, err := qrcode.New(summary.Address, qrcode.Medium)
	if err != nil {
		h.logger.Error("Failed to generate QR code", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate QR code",
		})
		return
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, qr.Image(256)); err != nil {
		h.logger.Error("Failed to encode QR code", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to encode QR code",
		})
		return
	}

	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
