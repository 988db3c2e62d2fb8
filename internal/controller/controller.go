package controller

import (
	"io"
	"strconv"

	"github.com/grocerlink/payment-service/internal/checkout"
	"github.com/grocerlink/payment-service/internal/dto"
	"github.com/grocerlink/payment-service/internal/service"
	pkgdto "github.com/grocerlink/payment-service/pkg/dto"
	"github.com/grocerlink/payment-service/pkg/errs"
	"github.com/grocerlink/payment-service/pkg/response"
	"github.com/grocerlink/payment-service/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type Controller struct {
	orderService  service.OrderService
	vaultService  service.VaultService
	ledgerService service.LedgerService
	feeCalculator checkout.FeeCalculator
	fileStore     checkout.FileStore
}

func CreateController(e *echo.Group, orderService service.OrderService, vaultService service.VaultService, ledgerService service.LedgerService, feeCalculator checkout.FeeCalculator, fileStore checkout.FileStore, isLoggedIn echo.MiddlewareFunc) {
	c := Controller{
		orderService:  orderService,
		vaultService:  vaultService,
		ledgerService: ledgerService,
		feeCalculator: feeCalculator,
		fileStore:     fileStore,
	}

	e.POST("/orders", c.FinalizeOrder)
	e.GET("/orders", c.GetOrders)

	e.GET("/checkout/methods", c.GetCheckoutMethods)
	e.POST("/proofs", c.SubmitProof)

	e.POST("/payment-methods/setup-intent", c.CreateSetupIntent)
	e.POST("/payment-methods/confirm", c.ConfirmInstrument)
	e.GET("/payment-methods", c.ListInstruments, isLoggedIn)
	e.POST("/payment-methods/:id/default", c.SetDefaultInstrument, isLoggedIn)
	e.POST("/payment-methods/:id/detach", c.RemoveInstrument, isLoggedIn)

	e.GET("/ledger/drivers/:id", c.GetDriverLedger)
	e.GET("/ledger/merchants/:id", c.GetMerchantLedger)
}

func (c *Controller) FinalizeOrder(e echo.Context) error {
	payload := dto.FinalizeOrderRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "FinalizeOrder").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, created, err := c.orderService.FinalizeOrder(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	if created {
		return response.WriteCreatedResponse(e, "order created", resp)
	}

	return response.WriteSuccessResponse(e, "order already finalized for this payment reference", resp)
}

func (c *Controller) GetOrders(e echo.Context) error {
	filter := pkgdto.Filter{}
	err := e.Bind(&filter)
	if err != nil {
		log.Error().Err(err).Str("component", "GetOrders").Msg("")
	}

	responsePayload, err := c.orderService.GetOrders(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "successfully retrieved orders record", responsePayload)
}

func (c *Controller) GetCheckoutMethods(e echo.Context) error {
	options := c.feeCalculator.MethodOptions()

	type methodOption struct {
		ID                  string `json:"id"`
		FeeBps              int64  `json:"fee_bps"`
		ProcessingTimeLabel string `json:"processing_time_label"`
		Total               int64  `json:"total,omitempty"`
	}

	amount, _ := strconv.ParseInt(e.QueryParam("amount"), 10, 64)

	payload := make([]methodOption, 0, len(options))
	for _, option := range options {
		entry := methodOption{
			ID:                  string(option.ID),
			FeeBps:              option.FeeBps,
			ProcessingTimeLabel: option.ProcessingTimeLabel,
		}
		if amount > 0 {
			total, err := c.feeCalculator.Total(amount, option.ID)
			if err != nil {
				return response.WriteErrorResponse(e, err, nil)
			}
			entry.Total = total
		}
		payload = append(payload, entry)
	}

	return response.WriteSuccessResponse(e, "", payload)
}

// SubmitProof accepts multipart evidence of an out-of-band transfer. Each
// file is validated on its own; one bad file never blocks the others.
func (c *Controller) SubmitProof(e echo.Context) error {
	form, err := e.MultipartForm()
	if err != nil {
		log.Error().Err(err).Str("component", "SubmitProof").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	amount, err := strconv.ParseInt(e.FormValue("amount"), 10, 64)
	if err != nil || amount <= 0 {
		return response.WriteErrorResponse(e, errs.ErrClient, []response.FieldError{
			{Field: "amount", Reason: "amount in cents is required"},
		})
	}

	collector := checkout.CreateProofCollector(checkout.PayeeDetails{
		Handle: e.FormValue("payee_handle"),
		Amount: amount,
	})

	fileResults := make([]dto.ProofFileResult, 0, len(form.File["files"]))
	for _, header := range form.File["files"] {
		result := dto.ProofFileResult{Name: header.Filename}
		mimeType := header.Header.Get("Content-Type")

		var content []byte
		if header.Size <= checkout.MaxProofFileSize {
			src, err := header.Open()
			if err != nil {
				log.Error().Err(err).Str("component", "SubmitProof").Msg("")
				return response.WriteErrorResponse(e, errs.ErrInternalServer, nil)
			}
			content, err = io.ReadAll(src)
			src.Close()
			if err != nil {
				log.Error().Err(err).Str("component", "SubmitProof").Msg("")
				return response.WriteErrorResponse(e, errs.ErrInternalServer, nil)
			}
		}

		if err := collector.AddFile(header.Filename, header.Size, mimeType, content); err != nil {
			result.Accepted = false
			result.Reason = errs.GetErrorReasonCode(err)
		} else {
			result.Accepted = true
		}

		fileResults = append(fileResults, result)
	}

	proof, err := collector.Submit(c.fileStore)
	if err != nil {
		return response.WriteErrorResponse(e, err, fileResults)
	}

	idx := 0
	for i := range fileResults {
		if fileResults[i].Accepted {
			fileResults[i].StoreRef = proof.Files[idx].StoreRef
			idx++
		}
	}

	return response.WriteCreatedResponse(e, "proof of transfer recorded", dto.ProofResponse{
		ProofReference: proof.Reference,
		Amount:         proof.Amount,
		Files:          fileResults,
		UploadedAt:     proof.UploadedAt,
	})
}

func (c *Controller) CreateSetupIntent(e echo.Context) error {
	payload := dto.SetupIntentRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "CreateSetupIntent").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := c.vaultService.CreateSetupIntent(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *Controller) ConfirmInstrument(e echo.Context) error {
	payload := dto.ConfirmInstrumentRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "ConfirmInstrument").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := c.vaultService.ConfirmInstrument(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteCreatedResponse(e, "payment method stored", resp)
}

func (c *Controller) ListInstruments(e echo.Context) error {
	ownerID, _, _ := utils.ExtractTokenUser(e)
	if ownerID == "" {
		return response.WriteErrorResponse(e, errs.ErrNotLoggedIn, nil)
	}

	resp, err := c.vaultService.ListInstruments(e.Request().Context(), ownerID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *Controller) SetDefaultInstrument(e echo.Context) error {
	ownerID, _, _ := utils.ExtractTokenUser(e)
	if ownerID == "" {
		return response.WriteErrorResponse(e, errs.ErrNotLoggedIn, nil)
	}

	id, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	if err := c.vaultService.SetDefaultInstrument(e.Request().Context(), ownerID, id); err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "default payment method updated", nil)
}

func (c *Controller) RemoveInstrument(e echo.Context) error {
	ownerID, _, _ := utils.ExtractTokenUser(e)
	if ownerID == "" {
		return response.WriteErrorResponse(e, errs.ErrNotLoggedIn, nil)
	}

	id, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	if err := c.vaultService.RemoveInstrument(e.Request().Context(), ownerID, id); err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "payment method removed", nil)
}

func (c *Controller) GetDriverLedger(e echo.Context) error {
	resp, err := c.ledgerService.DriverSummary(e.Request().Context(), e.Param("id"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *Controller) GetMerchantLedger(e echo.Context) error {
	resp, err := c.ledgerService.MerchantSummary(e.Request().Context(), e.Param("id"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}
