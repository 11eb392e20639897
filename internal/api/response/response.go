package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"uaifood/internal/domain"
	apperror "uaifood/internal/errors"
	"uaifood/internal/pkg/logger"
)

// JSON escreve data como JSON com o status informado.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Error traduz err para o corpo padronizado {code, category, message, details}.
// Erros 5xx são registrados com a causa original; a resposta nunca a inclui.
func Error(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	if log != nil {
		if status >= http.StatusInternalServerError {
			log.Error(fmt.Sprintf("Erro de Servidor: %s %s", r.Method, r.URL.Path), err)
		} else {
			log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
		}
	}

	JSON(w, status, domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
		Details:  apperror.FieldDetails(err),
	})
}

// Handle escreve data com successStatus quando err é nil, ou o erro padronizado.
func Handle(w http.ResponseWriter, r *http.Request, log logger.Logger, data interface{}, err error, successStatus int) {
	if err != nil {
		Error(w, r, log, err)
		return
	}
	if successStatus == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	JSON(w, successStatus, data)
}
