package detector

import (
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"

	"git.fiblab.net/sim/tldetector/entity"
	"git.fiblab.net/sim/tldetector/utils/randengine"
)

// Classifier 灯色分类器
// 功能：从单周期观测中判定信号灯颜色
// 说明：真实分类器以相机帧为输入；当前参考实现直接信任数据源给出的真值灯色，
// 这是刻意的简化而非隐含需求，接口保留给未来接入真实模型
type Classifier interface {
	Classify(obs entity.LightObservation) mapv2.LightState
}

// GroundTruth 直接返回观测真值的分类器
type GroundTruth struct{}

func (GroundTruth) Classify(obs entity.LightObservation) mapv2.LightState {
	return obs.GroundTruth
}

var allStates = []mapv2.LightState{
	mapv2.LightState_LIGHT_STATE_UNSPECIFIED,
	mapv2.LightState_LIGHT_STATE_RED,
	mapv2.LightState_LIGHT_STATE_YELLOW,
	mapv2.LightState_LIGHT_STATE_GREEN,
}

// Noisy 带噪声的仿真分类器
// 功能：以概率p把真值翻转为随机灯色，用于检验防抖逻辑在抖动观测下的表现
type Noisy struct {
	engine *randengine.Engine
	p      float64 // 单周期观测被翻转的概率
}

// NewNoisy 创建带噪声的仿真分类器
func NewNoisy(seed uint64, p float64) *Noisy {
	return &Noisy{engine: randengine.New(seed), p: p}
}

func (n *Noisy) Classify(obs entity.LightObservation) mapv2.LightState {
	if n.engine.PTrue(n.p) {
		return allStates[n.engine.Intn(len(allStates))]
	}
	return obs.GroundTruth
}
