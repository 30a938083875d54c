package indexer_server

import (
	"github.com/labstack/echo/v4"

	"github.com/gohornet/verdict/pkg/indexer"
)

type IndexerServer struct {
	Indexer                 *indexer.Indexer
	RestAPILimitsMaxResults int
}

func NewIndexerServer(indexer *indexer.Indexer, group *echo.Group, maxPageSize int) *IndexerServer {
	s := &IndexerServer{
		Indexer:                 indexer,
		RestAPILimitsMaxResults: maxPageSize,
	}
	s.configureRoutes(group)
	return s
}
