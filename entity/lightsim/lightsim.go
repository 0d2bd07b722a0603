package lightsim

import (
	"strings"

	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/samber/lo"

	"git.fiblab.net/sim/tldetector/entity"
	"git.fiblab.net/sim/tldetector/utils/config"
)

// 相位状态名到灯色的映射
var stateNames = map[string]mapv2.LightState{
	"red":     mapv2.LightState_LIGHT_STATE_RED,
	"yellow":  mapv2.LightState_LIGHT_STATE_YELLOW,
	"green":   mapv2.LightState_LIGHT_STATE_GREEN,
	"unknown": mapv2.LightState_LIGHT_STATE_UNSPECIFIED,
}

// runtime 信号灯相位运行时状态
type runtime struct {
	step      int     // 当前相位下标
	remaining float64 // 当前相位剩余时长（秒）
}

// program 单个停车线的信号灯配时方案
type program struct {
	states    []mapv2.LightState
	durations []float64

	runtime  runtime
	snapshot runtime
}

// LightSim 信号灯模拟器
// 功能：按配时方案推进各停车线的灯色，作为灯色数据源驱动停车线管理器
// 说明：未配置方案的停车线恒为绿灯
type LightSim struct {
	ctx      entity.ITaskContext
	programs []*program
}

// New 创建信号灯模拟器
func New(ctx entity.ITaskContext) *LightSim {
	return &LightSim{ctx: ctx}
}

// Init 根据停车线配置初始化配时方案
func (l *LightSim) Init(lines []config.StopLine) {
	l.programs = make([]*program, len(lines))
	for i, line := range lines {
		if len(line.Program) == 0 {
			continue
		}
		p := &program{
			states:    make([]mapv2.LightState, 0, len(line.Program)),
			durations: make([]float64, 0, len(line.Program)),
		}
		for _, phase := range line.Program {
			state, ok := stateNames[strings.ToLower(phase.State)]
			if !ok {
				log.Panicf("light program of stop line %d: unknown state %s", i, phase.State)
			}
			if phase.Duration <= 0 {
				log.Panicf("light program of stop line %d: non-positive duration %f", i, phase.Duration)
			}
			p.states = append(p.states, state)
			p.durations = append(p.durations, phase.Duration)
		}
		p.runtime.step = line.PhaseOffset % len(p.states)
		p.runtime.remaining = p.durations[p.runtime.step]
		l.programs[i] = p
	}
	log.Infof("light programs initialized for %d stop lines", len(lines))
}

// Prepare 准备阶段，固定本步快照并向停车线管理器提供灯色观测
func (l *LightSim) Prepare() {
	for _, p := range l.programs {
		if p != nil {
			p.snapshot = p.runtime
		}
	}
	l.ctx.StopLineManager().SetLights(l.States())
}

// States 本步各停车线的灯色
func (l *LightSim) States() []mapv2.LightState {
	return lo.Map(l.programs, func(p *program, _ int) mapv2.LightState {
		if p == nil {
			return mapv2.LightState_LIGHT_STATE_GREEN
		}
		return p.states[p.snapshot.step]
	})
}

// Update 更新阶段，推进相位计时
func (l *LightSim) Update(dt float64) {
	for _, p := range l.programs {
		if p == nil {
			continue
		}
		p.runtime.remaining -= dt
		if p.runtime.remaining <= 0 {
			p.runtime.remaining = 0
			for {
				p.runtime.step = (p.runtime.step + 1) % len(p.states)
				p.runtime.remaining += p.durations[p.runtime.step]
				if p.runtime.remaining > 0 {
					break
				}
			}
		}
	}
}
