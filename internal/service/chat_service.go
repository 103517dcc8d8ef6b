package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"bzr-portal-be/internal/constant"
	"bzr-portal-be/internal/dto"
	"bzr-portal-be/internal/entity"
	"bzr-portal-be/internal/repository/memory"
	"bzr-portal-be/internal/repository/specification"
	"bzr-portal-be/internal/repository/unitofwork"
	"bzr-portal-be/pkg/assembly"
	"bzr-portal-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// historyWindow bounds how much conversation context the LLM sees in the
// help and sales modes.
const historyWindow = 10

// titleMaxLen bounds the auto-generated conversation title.
const titleMaxLen = 50

// IChatService is the conversation orchestrator: one SendChat call is one
// turn, transactional end to end.
type IChatService interface {
	SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetAllConversations(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationListResponse, error)
	GetConversationHistory(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) ([]*dto.ConversationHistoryResponse, error)
	DeleteConversation(ctx context.Context, userId uuid.UUID, request *dto.DeleteConversationRequest) error
}

type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	llmProvider      llm.Provider
	engine           *assembly.Engine
	turnLock         *memory.TurnLock
	publisherService IPublisherService
	chatLogger       *log.Logger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.Provider,
	engine *assembly.Engine,
	turnLock *memory.TurnLock,
	publisherService IPublisherService,
) IChatService {
	return &chatService{
		uowFactory:       uowFactory,
		llmProvider:      llmProvider,
		engine:           engine,
		turnLock:         turnLock,
		publisherService: publisherService,
		chatLogger:       initChatLogger(),
	}
}

func initChatLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "chat.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[CHAT] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

// SendChat processes one user turn. The per-conversation lock guarantees a
// single in-flight turn; a concurrent sender gets 409 instead of a state
// race.
func (cs *chatService) SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	conversation, started, err := cs.resolveConversation(ctx, uow, userId, request)
	if err != nil {
		return nil, err
	}

	if !cs.turnLock.Acquire(ctx, conversation.Id) {
		return nil, fiber.NewError(fiber.StatusConflict, "Prethodna poruka se još obrađuje, sačekajte odgovor.")
	}
	defer cs.turnLock.Release(ctx, conversation.Id)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if started {
		if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	userMessage := &entity.ConversationMessage{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		Role:           constant.ChatMessageRoleUser,
		Content:        request.Message,
		CreatedAt:      now,
	}
	if err := uow.ConversationMessageRepository().Create(ctx, userMessage); err != nil {
		return nil, err
	}

	turn, err := cs.runMode(ctx, uow, conversation, request.Message, started)
	if err != nil {
		return nil, err
	}

	modelMessage := &entity.ConversationMessage{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		Role:           constant.ChatMessageRoleModel,
		Content:        turn.reply,
		Provider:       turn.provider,
		Model:          turn.model,
		InputTokens:    turn.inputTokens,
		OutputTokens:   turn.outputTokens,
		CostUSD:        turn.costUSD,
		CreatedAt:      now.Add(1 * time.Millisecond),
	}
	if err := uow.ConversationMessageRepository().Create(ctx, modelMessage); err != nil {
		return nil, err
	}

	conversation.InputTokens += turn.inputTokens
	conversation.OutputTokens += turn.outputTokens
	conversation.TotalCostUSD += turn.costUSD
	if started {
		conversation.Title = makeTitle(request.Message)
	}
	if turn.completed {
		conversation.Status = constant.ConversationStatusCompleted
	}
	if err := uow.ConversationRepository().Update(ctx, conversation); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// Events go out only after the turn is durable.
	if turn.completed && turn.document != nil {
		cs.publishDocumentCompleted(ctx, conversation, turn.document)
	}

	response := &dto.SendChatResponse{
		ConversationId: conversation.Id,
		Message:        turn.reply,
		Mode:           conversation.Mode,
	}
	if turn.provider != "" {
		response.Cost = &dto.CostDTO{
			InputTokens:  turn.inputTokens,
			OutputTokens: turn.outputTokens,
			USD:          turn.costUSD,
			Provider:     turn.provider,
		}
	}
	if conversation.Mode == constant.ConversationModeDocument {
		response.Metadata = &dto.ChatMetadataDTO{
			DocumentProgress: turn.progress,
			DocumentComplete: turn.completed,
			DocumentData:     turn.document,
		}
	}
	return response, nil
}

// turnOutcome is the internal result of one mode pipeline run.
type turnOutcome struct {
	reply        string
	provider     string
	model        string
	inputTokens  int
	outputTokens int
	costUSD      float64
	completed    bool
	document     *assembly.DocumentData
	progress     map[string]interface{}
}

// resolveConversation loads an existing conversation or creates a fresh
// one with the detected mode. The returned bool marks a fresh start.
func (cs *chatService) resolveConversation(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	userId uuid.UUID,
	request *dto.SendChatRequest,
) (*entity.Conversation, bool, error) {

	if request.ConversationId != nil {
		conversation, err := uow.ConversationRepository().FindOne(ctx,
			specification.ByID{ID: *request.ConversationId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, false, err
		}
		if conversation == nil {
			return nil, false, fiber.NewError(fiber.StatusNotFound, "Conversation not found or access denied")
		}
		// Document mode is sticky. For help and sales the mode follows
		// each message: an explicit request wins, then a keyword hit;
		// a neutral message keeps the conversation where it is.
		if conversation.Mode != constant.ConversationModeDocument {
			if request.Mode != "" {
				conversation.Mode = request.Mode
			} else if mode := matchModeKeywords(request.Message); mode != "" {
				conversation.Mode = mode
			}
		}
		return conversation, false, nil
	}

	mode := request.Mode
	if mode == "" {
		mode = detectMode(request.Message)
	}
	conversation := &entity.Conversation{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     "Nova konverzacija",
		Mode:      mode,
		Status:    constant.ConversationStatusActive,
		CreatedAt: time.Now(),
	}
	return conversation, true, nil
}

// matchModeKeywords returns the mode whose intent keywords the message
// hits, or empty on no hit. Document wins over help.
func matchModeKeywords(message string) string {
	if assembly.MatchAny(message, constant.DocumentIntentKeywords) {
		return constant.ConversationModeDocument
	}
	if assembly.MatchAny(message, constant.HelpIntentKeywords) {
		return constant.ConversationModeHelp
	}
	return ""
}

// detectMode classifies an opening message. Document intent wins over
// help; sales is the default for anything else.
func detectMode(message string) string {
	if mode := matchModeKeywords(message); mode != "" {
		return mode
	}
	return constant.ConversationModeSales
}

func (cs *chatService) runMode(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	conversation *entity.Conversation,
	message string,
	started bool,
) (*turnOutcome, error) {

	switch conversation.Mode {
	case constant.ConversationModeDocument:
		return cs.runDocumentTurn(ctx, conversation, message, started)
	case constant.ConversationModeHelp:
		return cs.runLLMTurn(ctx, uow, conversation, message, constant.HelpModePrompt)
	default:
		return cs.runLLMTurn(ctx, uow, conversation, message, constant.SalesModePrompt)
	}
}

// runDocumentTurn drives the assembly engine. The state blob is read,
// advanced and written back inside the surrounding transaction.
func (cs *chatService) runDocumentTurn(
	ctx context.Context,
	conversation *entity.Conversation,
	message string,
	started bool,
) (*turnOutcome, error) {

	state, err := assembly.ParseState(conversation.Metadata)
	if err != nil {
		// Corrupted state is a defect, not a user condition.
		cs.chatLogger.Printf("[ERROR] Corrupted document state for %s: %v", conversation.Id, err)
		return nil, fmt.Errorf("document state corrupted for conversation %s: %w", conversation.Id, err)
	}

	var result *assembly.TurnResult
	if started || conversation.Metadata == nil {
		// The opening message carries intent, not an answer. Greet and
		// ask the first question instead of feeding it to the extractor.
		result = cs.engine.Start(state)
	} else {
		result, err = cs.engine.Advance(ctx, conversation.UserId, message, state)
		if err != nil {
			return nil, err
		}
	}

	raw, err := state.Marshal()
	if err != nil {
		return nil, err
	}
	conversation.Metadata = raw

	return &turnOutcome{
		reply:        result.Reply(),
		provider:     result.Usage.Provider,
		model:        result.Usage.Model,
		inputTokens:  result.Usage.InputTokens,
		outputTokens: result.Usage.OutputTokens,
		costUSD:      result.Usage.CostUSD,
		completed:    result.IsComplete,
		document:     result.Document,
		progress:     state.Progress(),
	}, nil
}

// runLLMTurn answers help and sales messages with the LLM over a bounded
// history window.
func (cs *chatService) runLLMTurn(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	conversation *entity.Conversation,
	message string,
	systemPrompt string,
) (*turnOutcome, error) {

	history, err := cs.loadHistoryWindow(ctx, uow, conversation.Id)
	if err != nil {
		cs.chatLogger.Printf("[WARN] Failed to load history for %s: %v", conversation.Id, err)
		history = nil
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: constant.ChatMessageRoleSystem, Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: constant.ChatMessageRoleUser, Content: message})

	completion, err := cs.llmProvider.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	return &turnOutcome{
		reply:        completion.Text,
		provider:     completion.Provider,
		model:        completion.Model,
		inputTokens:  completion.InputTokens,
		outputTokens: completion.OutputTokens,
		costUSD:      llm.Cost(completion),
	}, nil
}

// loadHistoryWindow fetches the last N messages. The query orders newest
// first for the limit, then the slice is reversed back to chat order.
func (cs *chatService) loadHistoryWindow(ctx context.Context, uow unitofwork.UnitOfWork, conversationId uuid.UUID) ([]llm.Message, error) {
	messages, err := uow.ConversationMessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: historyWindow},
	)
	if err != nil {
		return nil, err
	}

	history := make([]llm.Message, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		role := "assistant"
		if messages[i].Role == constant.ChatMessageRoleUser {
			role = "user"
		}
		history = append(history, llm.Message{Role: role, Content: messages[i].Content})
	}
	return history, nil
}

func (cs *chatService) publishDocumentCompleted(ctx context.Context, conversation *entity.Conversation, doc *assembly.DocumentData) {
	payload, err := json.Marshal(dto.DocumentCompletedMessage{
		ConversationId: conversation.Id,
		UserId:         conversation.UserId,
		CompanyName:    doc.Company.Name,
		Positions:      doc.Summary.TotalPositions,
		HighRisks:      doc.Summary.HighRiskCount,
		GeneratedAt:    doc.GeneratedAt,
		ValidYears:     doc.ValidYears,
	})
	if err != nil {
		cs.chatLogger.Printf("[ERROR] Failed to marshal completion event: %v", err)
		return
	}
	if err := cs.publisherService.Publish(ctx, payload); err != nil {
		// The document itself is committed; the event is best effort.
		cs.chatLogger.Printf("[WARN] Failed to publish completion event for %s: %v", conversation.Id, err)
	}
}

func makeTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= titleMaxLen {
		return message
	}
	return string(runes[:titleMaxLen]) + "..."
}

// GetAllConversations lists the account's conversations, newest first.
func (cs *chatService) GetAllConversations(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationListResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.ConversationListResponse, 0, len(conversations))
	for _, c := range conversations {
		response = append(response, &dto.ConversationListResponse{
			Id:        c.Id,
			Title:     c.Title,
			Mode:      c.Mode,
			Status:    c.Status,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return response, nil
}

// GetConversationHistory returns the full message log in chat order.
func (cs *chatService) GetConversationHistory(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) ([]*dto.ConversationHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Conversation not found or access denied")
	}

	messages, err := uow.ConversationMessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.ConversationHistoryResponse, 0, len(messages))
	for _, m := range messages {
		response = append(response, &dto.ConversationHistoryResponse{
			Id:        m.Id,
			Role:      m.Role,
			Content:   m.Content,
			Provider:  m.Provider,
			Model:     m.Model,
			CreatedAt: m.CreatedAt,
		})
	}
	return response, nil
}

// DeleteConversation removes a conversation and its messages.
func (cs *chatService) DeleteConversation(ctx context.Context, userId uuid.UUID, request *dto.DeleteConversationRequest) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: request.ConversationId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if conversation == nil {
		return fiber.NewError(fiber.StatusNotFound, "Conversation not found or access denied")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ConversationRepository().Delete(ctx, request.ConversationId); err != nil {
		return err
	}
	if err := uow.ConversationMessageRepository().DeleteByConversationId(ctx, request.ConversationId); err != nil {
		return err
	}

	return uow.Commit()
}
