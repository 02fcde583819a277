package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"cupo/internal/service"
)

// WalletHandler handles HTTP requests for wallets.
type WalletHandler struct {
	walletService *service.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletService *service.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// WalletResponse is the HTTP response for a wallet snapshot.
type WalletResponse struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Balance       decimal.Decimal `json:"balance"`
	FrozenBalance decimal.Decimal `json:"frozen_balance"`
	UpdatedAt     string          `json:"updated_at"`
}

// TransactionResponse is a single ledger entry.
type TransactionResponse struct {
	ID              string          `json:"id"`
	TripID          string          `json:"trip_id,omitempty"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	Detail          string          `json:"detail"`
	Status          string          `json:"status"`
	CreatedAt       string          `json:"created_at"`
}

// CheckBalanceRequest is the HTTP request body for a publish eligibility check.
type CheckBalanceRequest struct {
	Seats        int             `json:"seats"`
	PricePerSeat decimal.Decimal `json:"price_per_seat"`
}

// CheckBalanceResponse is the HTTP response for a publish eligibility check.
type CheckBalanceResponse struct {
	Sufficient bool              `json:"sufficient"`
	Available  decimal.Decimal   `json:"available"`
	Required   decimal.Decimal   `json:"required"`
	Deficit    decimal.Decimal   `json:"deficit"`
	Guarantee  GuaranteeResponse `json:"guarantee"`
}

// GetWallet handles GET /v1/wallets/:userID
func (h *WalletHandler) GetWallet(c *gin.Context) {
	wallet, err := h.walletService.GetWallet(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, WalletResponse{
		ID:            wallet.ID,
		UserID:        wallet.UserID,
		Balance:       wallet.Balance,
		FrozenBalance: wallet.FrozenBalance,
		UpdatedAt:     formatTime(wallet.UpdatedAt),
	})
}

// GetTransactions handles GET /v1/wallets/:userID/transactions
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	txs, err := h.walletService.GetTransactions(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		response = append(response, TransactionResponse{
			ID:              tx.ID,
			TripID:          tx.TripID,
			TransactionType: string(tx.TransactionType),
			Amount:          tx.Amount,
			Detail:          tx.Detail,
			Status:          string(tx.Status),
			CreatedAt:       formatTime(tx.CreatedAt),
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// CheckBalance handles POST /v1/wallets/:userID/check-balance
func (h *WalletHandler) CheckBalance(c *gin.Context) {
	var req CheckBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.walletService.CheckPublishBalance(c.Request.Context(), c.Param("userID"), req.Seats, req.PricePerSeat)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CheckBalanceResponse{
		Sufficient: result.Check.Sufficient,
		Available:  result.Check.Available,
		Required:   result.Check.Required,
		Deficit:    result.Check.Deficit,
		Guarantee:  toGuaranteeResponse(result.Guarantee),
	})
}
