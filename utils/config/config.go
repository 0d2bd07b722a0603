package config

// 灯色防抖阈值默认值：同一灯色需连续出现该次数以上才允许改变发布结果
const DefaultStateCountThreshold = 3

// 输出通道默认容量
const defaultOutputBuffer = 16

// RuntimeConfig 运行时配置
// 功能：存储检测节点运行时的配置信息，补全默认值后供各模块使用
type RuntimeConfig struct {
	All       Config  // 全部配置
	C         Control // 全局控制配置
	Threshold int     // 灯色防抖阈值
	OutBuffer int     // 输出通道容量
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象，补全默认值
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{}

	rc.All = config
	rc.C = config.Control
	rc.Threshold = config.Detector.StateCountThreshold
	if rc.Threshold <= 0 {
		rc.Threshold = DefaultStateCountThreshold
	}
	rc.OutBuffer = config.Detector.OutputBuffer
	if rc.OutBuffer <= 0 {
		rc.OutBuffer = defaultOutputBuffer
	}

	return rc
}
