package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"waifud/internal/models"
	"waifud/internal/providers"
	"waifud/internal/services"
	"waifud/internal/structures"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type commandRequest struct {
	GroupID    string `json:"group_id"`
	UserID     string `json:"user_id"`
	Nickname   string `json:"nickname"`
	TargetID   string `json:"target_id"`
	TargetName string `json:"target_name"`
}

// WifeController exposes the command surface the chat adapter calls. Domain
// rejections (no target, expired, rate limit...) are not errors: they come
// back as HTTP 200 with a plain text chain for the adapter to relay.
type WifeController struct {
	logger  providers.Logger
	service services.WifeServiceInterface
	conf    *structures.Config
}

func NewWifeController(logger providers.Logger, service services.WifeServiceInterface, conf *structures.Config) *WifeController {
	return &WifeController{
		logger:  logger,
		service: service,
		conf:    conf,
	}
}

func decodeCommand(w http.ResponseWriter, r *http.Request) (*commandRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return nil, false
	}
	if req.GroupID == "" || req.UserID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}

func (wc *WifeController) Draw(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCommand(w, r)
	if !ok {
		return
	}

	chain, err := wc.service.Draw(r.Context(), req.GroupID, req.UserID, req.Nickname)
	if err != nil {
		if msg := drawMessage(err); msg != "" {
			wc.writeChain(w, models.Chain{models.TextSegment{Text: msg}})
			return
		}
		wc.logger.Errorf(providers.TypePost, "Draw failed for group %s: %s", req.GroupID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	wc.writeChain(w, chain)
}

func (wc *WifeController) Ntr(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCommand(w, r)
	if !ok {
		return
	}

	chain, _, err := wc.service.Ntr(r.Context(), req.GroupID, req.UserID, req.Nickname, req.TargetID, req.TargetName)
	if err != nil {
		if msg := wc.ntrMessage(err, req); msg != "" {
			wc.writeChain(w, models.Chain{models.TextSegment{Text: msg}})
			return
		}
		wc.logger.Errorf(providers.TypePost, "Ntr failed for group %s: %s", req.GroupID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	wc.writeChain(w, chain)
}

func (wc *WifeController) Search(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCommand(w, r)
	if !ok {
		return
	}

	chain, err := wc.service.Search(r.Context(), req.GroupID, req.UserID, req.TargetID, req.TargetName)
	if err != nil {
		if msg := searchMessage(err); msg != "" {
			wc.writeChain(w, models.Chain{models.TextSegment{Text: msg}})
			return
		}
		wc.logger.Errorf(providers.TypePost, "Search failed for group %s: %s", req.GroupID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	wc.writeChain(w, chain)
}

func (wc *WifeController) ToggleNtr(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCommand(w, r)
	if !ok {
		return
	}

	enabled, err := wc.service.ToggleNtr(req.GroupID, req.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotAdmin) {
			wc.writeChain(w, models.Chain{models.TextSegment{Text: fmt.Sprintf("%s，你没有权限切换NTR功能状态。", req.Nickname)}})
			return
		}
		wc.logger.Errorf(providers.TypePost, "Toggle failed for group %s: %s", req.GroupID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	status := "关闭"
	if enabled {
		status = "开启"
	}
	wc.writeChain(w, models.Chain{models.TextSegment{Text: fmt.Sprintf("%s，NTR功能已%s", req.Nickname, status)}})
}

func drawMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrNetworkFailure):
		return "无法获取图片列表，请稍后再试。"
	case errors.Is(err, models.ErrStoreUnavailable):
		return "图库暂时不可用，请稍后再试。"
	}
	return ""
}

func (wc *WifeController) ntrMessage(err error, req *commandRequest) string {
	switch {
	case errors.Is(err, models.ErrFeatureDisabled):
		return "牛老婆功能未开启！"
	case errors.Is(err, models.ErrRateLimited):
		return fmt.Sprintf("为防止牛头人泛滥，一天最多可牛%d次，请明天再来吧~", wc.conf.Ntr.MaxPerDay)
	case errors.Is(err, models.ErrNoTarget):
		return fmt.Sprintf("%s，请指定一个要下手的目标", req.Nickname)
	case errors.Is(err, models.ErrSelfTarget):
		return fmt.Sprintf("%s，不能牛自己", req.Nickname)
	case errors.Is(err, models.ErrNoRecord):
		return "需要对方有老婆才能牛"
	case errors.Is(err, models.ErrExpired):
		return "对方的老婆已过期，您也不想要过期的老婆吧"
	}
	return ""
}

func searchMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrNoRecord):
		return "未找到老婆信息！"
	case errors.Is(err, models.ErrExpired):
		return "查询的老婆已过期"
	}
	return ""
}

// writeChain delivers the message chain; if the rich chain cannot be encoded
// it degrades to the text-only segments rather than failing the request.
func (wc *WifeController) writeChain(w http.ResponseWriter, chain models.Chain) {
	gson, err := json.Marshal(chain)
	if err != nil {
		wc.logger.Errorf(providers.TypePost, "Chain encode failed, downgrading to text: %s", err)
		gson, err = json.Marshal(chain.TextOnly())
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}
