package handlers

import (
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
	"github.com/rogerio-castellano/inventory-ledger/internal/service"
)

var (
	ledgerSvc *service.Service
	userRepo  repo.UserRepository
)

func SetService(s *service.Service) {
	ledgerSvc = s
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}
