package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"multirag/internal/server/middleware"
	"multirag/pkg/answer"
	"multirag/pkg/retrieve"
)

// QueryHandler answers a question using hybrid retrieval: vector search
// plus a translated graph query, fused into one grounded answer.
func QueryHandler(c echo.Context) error {
	type queryBody struct {
		Question string `json:"question" validate:"required"`
		TopK     int    `json:"top_k" validate:"omitempty,min=1,max=50"`
	}

	type queryResponse struct {
		Message string `json:"message,omitempty"`
		Answer  string `json:"answer,omitempty"`
		Context string `json:"context,omitempty"`
	}

	data := new(queryBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, queryResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, queryResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	retriever := retrieve.NewRetriever(retrieve.NewRetrieverParams{
		AIClient:    app.AiClient,
		VectorStore: app.VectorStore,
		GraphStore:  app.GraphStore,
		Collection:  app.Config.Collection,
		TopK:        data.TopK,
	})
	fused := retriever.Retrieve(ctx, data.Question)

	generator := answer.NewGenerator(answer.NewGeneratorParams{
		AIClient:    app.AiClient,
		Model:       app.Config.ChatModel,
		Temperature: app.Config.Temperature,
	})
	result := generator.Answer(ctx, data.Question, fused)

	return c.JSON(http.StatusOK, queryResponse{
		Answer:  result,
		Context: fused,
	})
}
