package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"AuraLink/internal/config"
	"AuraLink/internal/modules/support/application/dto/request"
	"AuraLink/internal/modules/support/application/dto/respond"
	"AuraLink/internal/modules/support/domain/action"
	"AuraLink/internal/modules/support/domain/repository"
	"AuraLink/internal/modules/support/infrastructure/retrieval"
	"AuraLink/pkg/util"
	"AuraLink/pkg/util/myjwt"
)

// AdminService 管理端服务接口：会话巡检、台账查询、手册入库
type AdminService interface {
	Login(ctx context.Context, req request.AdminLoginRequest) (*respond.AdminLoginRespond, error)
	ListSessions(ctx context.Context) (*respond.SessionListRespond, error)
	GetSession(ctx context.Context, sessionID string) (*respond.SessionDetailRespond, error)
	ClearSession(ctx context.Context, sessionID string) (*respond.SessionClearRespond, error)
	ListActions(ctx context.Context, name string) (*respond.LedgerListRespond, error)
	GetOrder(ctx context.Context, orderID string) (*respond.OrderRespond, error)
	Ingest(ctx context.Context, req request.IngestRequest) (*respond.IngestRespond, error)
}

type adminServiceImpl struct {
	sessionStore repository.SessionStore
	ledger       repository.ActionLedger
	orderRepo    repository.OrderRepository
	ingester     *retrieval.ManualIngester
}

// NewAdminService 创建AdminService；ingester 可为 nil（向量库未配置）
func NewAdminService(
	sessionStore repository.SessionStore,
	ledger repository.ActionLedger,
	orderRepo repository.OrderRepository,
	ingester *retrieval.ManualIngester,
) AdminService {
	return &adminServiceImpl{
		sessionStore: sessionStore,
		ledger:       ledger,
		orderRepo:    orderRepo,
		ingester:     ingester,
	}
}

func (s *adminServiceImpl) Login(ctx context.Context, req request.AdminLoginRequest) (*respond.AdminLoginRespond, error) {
	conf := config.GetConfig()
	if conf.AdminConfig.Username == "" || conf.AdminConfig.Password == "" {
		return nil, fmt.Errorf("admin account not configured")
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(conf.AdminConfig.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(conf.AdminConfig.Password)) == 1
	if !userOK || !passOK {
		return nil, fmt.Errorf("invalid username or password")
	}

	token, err := myjwt.GenerateToken(util.GenerateUUID(), req.Username)
	if err != nil {
		return nil, err
	}
	return &respond.AdminLoginRespond{Token: token}, nil
}

func (s *adminServiceImpl) ListSessions(ctx context.Context) (*respond.SessionListRespond, error) {
	ids, err := s.sessionStore.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	return &respond.SessionListRespond{Sessions: ids, Count: len(ids)}, nil
}

func (s *adminServiceImpl) GetSession(ctx context.Context, sessionID string) (*respond.SessionDetailRespond, error) {
	sess, err := s.sessionStore.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("session not found")
	}
	return &respond.SessionDetailRespond{Session: sess}, nil
}

func (s *adminServiceImpl) ClearSession(ctx context.Context, sessionID string) (*respond.SessionClearRespond, error) {
	ok, err := s.sessionStore.Clear(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &respond.SessionClearRespond{Cleared: ok}, nil
}

// parseActionName 接受动作类型或台账名两种写法
func parseActionName(name string) (action.Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "initiate_refund", "refunds":
		return action.InitiateRefund, nil
	case "initiate_replacement", "replacements":
		return action.InitiateReplacement, nil
	case "book_service", "service_bookings":
		return action.BookService, nil
	}
	return action.None, fmt.Errorf("unknown action: %s", name)
}

func (s *adminServiceImpl) ListActions(ctx context.Context, name string) (*respond.LedgerListRespond, error) {
	t, err := parseActionName(name)
	if err != nil {
		return nil, err
	}

	records, err := s.ledger.List(ctx, t)
	if err != nil {
		return nil, err
	}
	return &respond.LedgerListRespond{
		Action:  string(t),
		Records: records,
		Count:   len(records),
	}, nil
}

func (s *adminServiceImpl) GetOrder(ctx context.Context, orderID string) (*respond.OrderRespond, error) {
	o, err := s.orderRepo.GetByID(ctx, strings.TrimSpace(orderID))
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("order not found")
	}
	return &respond.OrderRespond{
		OrderID:       o.OrderId,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		ProductName:   o.ProductName,
		ModelNumber:   o.ModelNumber,
		PurchaseDate:  o.PurchaseDate,
		WarrantyYears: o.WarrantyYears,
		Summary:       o.Summary(),
	}, nil
}

func (s *adminServiceImpl) Ingest(ctx context.Context, req request.IngestRequest) (*respond.IngestRespond, error) {
	if s.ingester == nil {
		return nil, fmt.Errorf("knowledge ingestion not configured")
	}

	dir := strings.TrimSpace(req.Dir)
	if dir == "" {
		dir = config.GetConfig().DataConfig.ManualsDir
	}
	if dir == "" {
		return nil, fmt.Errorf("manuals dir not configured")
	}

	stats, err := s.ingester.IngestDir(ctx, dir)
	if err != nil {
		return nil, err
	}
	return &respond.IngestRespond{Files: stats.Files, Chunks: stats.Chunks}, nil
}
