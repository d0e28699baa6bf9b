package tracker

import (
	"context"
	"strings"

	"traq/internal/logger"
	"traq/internal/setup"
	"traq/internal/store"

	"github.com/google/uuid"
)

// DefaultStorageKey 是台账文档在 BlobStore 中的固定键。
const DefaultStorageKey = "traq:ledger:v1"

// Config 描述 Tracker 依赖。
type Config struct {
	Store      store.BlobStore
	StorageKey string
	MaxItems   int
}

// Tracker 是台账的唯一写入口。Tick 是同步的读-改-写循环，
// 单 goroutine 调用；存储层故障一律吸收，不向调用方抛出。
type Tracker struct {
	store    store.BlobStore
	key      string
	maxItems int
}

func New(cfg Config) *Tracker {
	if cfg.StorageKey == "" {
		cfg.StorageKey = DefaultStorageKey
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = DefaultMaxItems
	}
	return &Tracker{store: cfg.Store, key: cfg.StorageKey, maxItems: cfg.MaxItems}
}

// Tick 处理一个轮询周期：按 key upsert 候选，对该 symbol 的 OPEN
// 记录依次跑 excursion 与 closure，裁剪后整写回存储。
// symbol 为空或候选列表为 nil 时整体 no-op。
func (t *Tracker) Tick(ctx context.Context, symbol string, candidates []setup.Candidate, mid float64, now int64) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("tracker: tick panic recovered: %v", r)
		}
	}()

	symbol = strings.TrimSpace(symbol)
	if symbol == "" || candidates == nil {
		return
	}
	trace := uuid.NewString()

	doc := t.load(ctx)

	index := make(map[string]int, len(doc.Items))
	for i := range doc.Items {
		index[doc.Items[i].Key] = i
	}

	derived := 0
	for _, c := range candidates {
		key := c.Key()
		if key == "" {
			continue
		}
		if i, ok := index[key]; ok {
			Merge(&doc.Items[i], c, now)
			continue
		}
		rec, ok := Derive(symbol, c, now)
		if !ok {
			continue
		}
		doc.Items = append(doc.Items, *rec)
		index[key] = len(doc.Items) - 1
		derived++
	}

	closedNow := 0
	for i := range doc.Items {
		r := &doc.Items[i]
		if r.Symbol != symbol || !r.IsOpen() {
			continue
		}
		UpdateExcursion(r, mid)
		EvaluateClosure(r, mid, now)
		if !r.IsOpen() {
			closedNow++
			logger.Infof("tracker: setup closed key=%s outcome=%s mfe_r=%.2f mae_r=%.2f trace=%s",
				r.Key, r.Outcome, r.MFER, r.MAER, trace)
		}
	}

	doc = Prune(doc, t.maxItems)
	doc.UpdatedTS = now
	t.save(ctx, doc)

	logger.Debugf("tracker: tick done symbol=%s candidates=%d derived=%d closed=%d items=%d trace=%s",
		symbol, len(candidates), derived, closedNow, len(doc.Items), trace)
}

// ReadAll 返回台账全部记录（副本，只读视图）。
func (t *Tracker) ReadAll(ctx context.Context) []Record {
	doc := t.load(ctx)
	out := make([]Record, len(doc.Items))
	copy(out, doc.Items)
	return out
}

// Summary 返回当前台账的聚合统计。
func (t *Tracker) Summary(ctx context.Context) Stats {
	return Summarize(t.ReadAll(ctx))
}

// Clear 清空持久化文档，仅供用户显式触发的重置使用。
func (t *Tracker) Clear(ctx context.Context) {
	if err := t.store.Delete(ctx, t.key); err != nil {
		logger.Warnf("tracker: clear failed: %v", err)
	}
}

// load 读取并解码台账；读失败与解码失败同样退回空文档。
func (t *Tracker) load(ctx context.Context) Document {
	blob, err := t.store.Load(ctx, t.key)
	if err != nil {
		logger.Warnf("tracker: load failed, starting from empty ledger: %v", err)
		return NewDocument()
	}
	return DecodeDocument(blob)
}

// save 整写台账。写失败时套用一次淘汰策略并重试，再失败则放弃
// 本轮持久化（内存计算结果已经完成，下一个 tick 会重新收敛）。
func (t *Tracker) save(ctx context.Context, doc Document) {
	blob, err := EncodeDocument(doc)
	if err != nil {
		logger.Errorf("tracker: encode ledger failed: %v", err)
		return
	}
	if err := t.store.Save(ctx, t.key, blob); err == nil {
		return
	}
	doc = Prune(doc, t.maxItems)
	blob, err = EncodeDocument(doc)
	if err != nil {
		logger.Errorf("tracker: encode ledger failed after prune: %v", err)
		return
	}
	if err := t.store.Save(ctx, t.key, blob); err != nil {
		logger.Warnf("tracker: save dropped after evict-and-retry: %v", err)
	}
}
