package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
	"github.com/secmon-lab/memoryjar/pkg/usecase"
	"github.com/secmon-lab/memoryjar/pkg/utils/errutil"
	"github.com/secmon-lab/memoryjar/pkg/utils/logging"
)

const maxBodySize = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck // header already committed
}

// decodeJSON reads the request body into v and answers 400 on failure
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		logging.From(r.Context()).Info("invalid request body", "path", r.URL.Path, "error", err.Error())
		writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return false
	}
	return true
}

type statusResponse struct {
	model.DailyStatus
	Countdown string `json:"countdown"`
}

func statusHandler(uc *usecase.RevealUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := uc.Status(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, statusResponse{
			DailyStatus: status,
			Countdown:   status.Countdown(),
		})
	}
}

type revealResponse struct {
	Memory  *model.Memory `json:"memory"`
	Message string        `json:"message,omitempty"`
}

func revealHandler(uc *usecase.RevealUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		memory, err := uc.Reveal(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		resp := revealResponse{Memory: memory}
		if memory == nil {
			resp.Message = model.MsgAllSeen
		}
		writeJSON(r.Context(), w, http.StatusOK, resp)
	}
}

type addMemoryRequest struct {
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl"`
	Date     string `json:"date"`
}

type memoryResponse struct {
	Memory *model.Memory `json:"memory"`
}

func addMemoryHandler(uc *usecase.AdminUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addMemoryRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		memory, err := uc.AddMemory(r.Context(), req.Text, req.ImageURL, req.Date)
		switch {
		case err == nil:
			writeJSON(r.Context(), w, http.StatusCreated, memoryResponse{Memory: memory})

		case errors.Is(err, model.ErrValidation):
			logging.From(r.Context()).Info("memory rejected", "error", err.Error())
			writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: err.Error()})

		case errors.Is(err, model.ErrStorageFull):
			errutil.Handle(r.Context(), err, "storage full while adding memory")
			writeJSON(r.Context(), w, http.StatusInsufficientStorage, errorResponse{Error: model.MsgStorageFull})

		default:
			errutil.Handle(r.Context(), err, "failed to add memory")
			writeJSON(r.Context(), w, http.StatusInternalServerError, errorResponse{Error: model.MsgSaveFailed})
		}
	}
}

type textBody struct {
	Text string `json:"text"`
}

func enhanceHandler(uc *usecase.EnhanceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req textBody
		if !decodeJSON(w, r, &req) {
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, textBody{Text: uc.Enhance(r.Context(), req.Text)})
	}
}

type urlBody struct {
	URL string `json:"url"`
}

func imagePreviewHandler(uc *usecase.AdminUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, http.StatusOK, urlBody{URL: uc.PreviewImageURL(r.URL.Query().Get("url"))})
	}
}

func bypassHandler(uc *usecase.RevealUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := uc.Bypass(r.Context()); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func resetHandler(uc *usecase.AdminUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := uc.Reset(r.Context()); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
