package httphandler

import (
	"github.com/thorbond/bond-indexer/modules/bondmarket/usecase"
)

type HttpHandler struct {
	usecase *usecase.Usecase
}

func New(usecase *usecase.Usecase) *HttpHandler {
	return &HttpHandler{
		usecase: usecase,
	}
}
