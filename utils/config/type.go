package config

// InputPath 指定输入数据来源的配置（MongoDB、文件系统）
// 功能：定义数据输入路径的配置结构，支持多种数据源
// 说明：支持MongoDB数据库和文件系统两种数据源，支持缓存机制
type InputPath struct {
	DB        string `yaml:"db"`                   // 数据库名
	Col       string `yaml:"col"`                  // 集合名
	Cache     string `yaml:"cache,omitempty"`      // 缓存文件名，为空则采用默认路径{db}.{col}.pb
	OnlyCache bool   `yaml:"only_cache,omitempty"` // 只从缓存中获取
	File      string `yaml:"file,omitempty"`       // 文件路径（优先级高于MongoDB）
}

// GetDb 获取数据库名
func (p InputPath) GetDb() string {
	return p.DB
}

// GetColl 获取集合名
func (p InputPath) GetColl() string {
	return p.Col
}

// GetCachePath 获取缓存文件路径
// 说明：如果指定了缓存路径则直接返回，否则使用默认命名规则{数据库名}.{集合名}.pb
func (p InputPath) GetCachePath() string {
	if p.Cache != "" {
		return p.Cache
	}
	return p.DB + "." + p.Col + ".pb"
}

// Input 指定检测节点所有输入数据的配置项
// 说明：地图数据用于从车道中心线构建行驶路线，实车模式下路线也可由路线数据源在运行时整体替换
type Input struct {
	URI string    `yaml:"uri"` // MongoDB连接字符串
	Map InputPath `yaml:"map"` // 地图
}

// Phase 固定相位灯控程序中的一个相位
type Phase struct {
	State    string  `yaml:"state"`    // 灯色：red/yellow/green/unknown
	Duration float64 `yaml:"duration"` // 相位时长（秒）
}

// StopLine 停车线配置
// 说明：位置与灯控程序按下标与信号灯一一对应，启动时加载后不再变化
type StopLine struct {
	X           float64 `yaml:"x"`
	Y           float64 `yaml:"y"`
	Program     []Phase `yaml:"program,omitempty"`      // 仿真用固定相位程序，为空时保持绿灯
	PhaseOffset int     `yaml:"phase_offset,omitempty"` // 起始相位偏移
}

// Detector 检测模块配置
type Detector struct {
	RouteLanes          []int32    `yaml:"route_lanes,omitempty"`           // 路线车道ID序列（按行驶顺序），用于从地图中心线构建路径点
	StopLines           []StopLine `yaml:"stop_lines"`                      // 停车线列表
	StateCountThreshold int        `yaml:"state_count_threshold,omitempty"` // 灯色防抖阈值，0表示使用默认值3
	OutputBuffer        int        `yaml:"output_buffer,omitempty"`         // 输出通道容量，0表示使用默认值16
}

// ControlStep 指定检测节点运行时间范围和观测周期的配置项
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 总步数
	Interval float64 `yaml:"interval"` // 每个观测周期的时间间隔（秒）
}

// Sim 仿真数据源配置
// 说明：配置为空时工作在实车模式，定位与灯色观测均由外部数据源推送
type Sim struct {
	V               float64 `yaml:"v"`                          // 仿真车速（m/s）
	StartS          float64 `yaml:"start_s,omitempty"`          // 起始里程（沿路线折线）
	ClassifierNoise float64 `yaml:"classifier_noise,omitempty"` // 分类器噪声：单周期观测被翻转为随机灯色的概率
	Seed            uint64  `yaml:"seed,omitempty"`             // 噪声随机种子
}

// Control 检测节点控制配置
type Control struct {
	Step ControlStep `yaml:"step"`
	Sim  *Sim        `yaml:"sim,omitempty"` // 非空时启用内置仿真数据源
}

// Config YAML配置文件的根结构
type Config struct {
	Input    Input    `yaml:"input"`    // 输入
	Detector Detector `yaml:"detector"` // 检测模块
	Control  Control  `yaml:"control"`  // 运行过程控制
}
