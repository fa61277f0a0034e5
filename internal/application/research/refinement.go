package research

// Phase 精炼状态机阶段
type Phase string

const (
	PhaseInitial  Phase = "initial"
	PhaseRefining Phase = "refining"
	PhaseDone     Phase = "done"
)

// DefaultMaxDepth 最多允许一次重查询
const DefaultMaxDepth = 1

// CycleState 单次请求内的瞬时状态，不持久化
type CycleState struct {
	Query    string
	Depth    int
	MaxDepth int
	Phase    Phase
}

// NewCycleState 以原始查询创建初始状态
func NewCycleState(query string, maxDepth int) CycleState {
	if maxDepth < 0 {
		maxDepth = 0
	}
	return CycleState{
		Query:    query,
		Depth:    0,
		MaxDepth: maxDepth,
		Phase:    PhaseInitial,
	}
}

// Decision 一轮合成结束后的决策
type Decision struct {
	// Requery 为 true 时 Next 携带新查询，需要再跑一轮检索与合成
	Requery bool
	Next    CycleState
	// Output 在 Requery 为 false 时是最终回答
	Output string
	// UnresolvedMarker 表示回答中有标记但深度已耗尽
	UnresolvedMarker bool
}

// RefinementController 检查合成结果中的重查询标记并决定是否再跑一轮
type RefinementController struct {
	protocol        *MarkerProtocol
	maxDepth        int
	stripUnresolved bool
}

// NewRefinementController 创建精炼控制器
// stripUnresolved 为 false 时，深度耗尽后的残留标记原样保留在最终回答中
func NewRefinementController(protocol *MarkerProtocol, maxDepth int, stripUnresolved bool) *RefinementController {
	if protocol == nil {
		protocol = MustMarkerProtocol(DefaultMarkerOpen, DefaultMarkerClose)
	}
	if maxDepth < 0 {
		maxDepth = 0
	}
	return &RefinementController{
		protocol:        protocol,
		maxDepth:        maxDepth,
		stripUnresolved: stripUnresolved,
	}
}

// MaxDepth 返回最大重查询深度
func (c *RefinementController) MaxDepth() int {
	return c.maxDepth
}

// Protocol 返回标记协议
func (c *RefinementController) Protocol() *MarkerProtocol {
	return c.protocol
}

// Start 以原始查询创建初始状态
func (c *RefinementController) Start(query string) CycleState {
	return NewCycleState(query, c.maxDepth)
}

// Next 根据本轮合成输出推进状态机
func (c *RefinementController) Next(state CycleState, output string) Decision {
	query, found := c.protocol.Extract(output)
	if found && state.Depth < state.MaxDepth {
		return Decision{
			Requery: true,
			Next: CycleState{
				Query:    query,
				Depth:    state.Depth + 1,
				MaxDepth: state.MaxDepth,
				Phase:    PhaseRefining,
			},
		}
	}

	final := output
	if found && c.stripUnresolved {
		final = c.protocol.Strip(output)
	}
	state.Phase = PhaseDone
	return Decision{
		Next:             state,
		Output:           final,
		UnresolvedMarker: found,
	}
}
