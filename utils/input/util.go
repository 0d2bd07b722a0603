package input

import (
	"errors"
	"fmt"
	"os"

	"git.fiblab.net/general/common/v2/geometry"
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
)

// RouteWaypoints 按配置的车道ID序列从地图构建行驶路线
// 功能：按行驶顺序连接各车道的中心线折线，得到有序路径点序列
// 参数：laneIDs-路线车道ID序列
// 返回：路径点序列和错误信息
// 说明：只允许行车道；相邻车道衔接处的重复点只保留一个，
// 保证路径点下标在路线生命周期内稳定
func (in *Input) RouteWaypoints(laneIDs []int32) ([]geometry.Point, error) {
	if in.Map == nil {
		return nil, errors.New("no map loaded")
	}
	lanes := make(map[int32]*mapv2.Lane, len(in.Map.Lanes))
	for _, l := range in.Map.Lanes {
		lanes[l.Id] = l
	}
	points := make([]geometry.Point, 0)
	for _, id := range laneIDs {
		l, ok := lanes[id]
		if !ok {
			return nil, fmt.Errorf("no lane %d in map", id)
		}
		if l.Type != mapv2.LaneType_LANE_TYPE_DRIVING {
			return nil, fmt.Errorf("lane %d is not a driving lane", id)
		}
		for _, node := range l.CenterLine.Nodes {
			p := geometry.NewPointFromPb(node)
			if n := len(points); n > 0 && points[n-1].X == p.X && points[n-1].Y == p.Y {
				// 车道衔接处首尾重合
				continue
			}
			points = append(points, p)
		}
	}
	return points, nil
}

// preCheckCache 预检查缓存目录
// 功能：验证输入缓存目录的有效性，决定是否启用缓存功能
// 参数：cacheDir-缓存目录路径
// 返回：true表示启用缓存，false表示禁用缓存
func preCheckCache(cacheDir string) bool {
	if cacheDir == "" {
		log.Info("disable input cache")
		return false
	} else {
		if stat, err := os.Stat(cacheDir); err == nil && stat.IsDir() {
			// 文件夹存在
			log.Infof("enable input cache at %s", cacheDir)
			return true
		} else {
			log.Errorf("disable input cache because invalid dir %s (not exist or file)", cacheDir)
			return false
		}
	}
}
