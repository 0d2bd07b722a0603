package input

import (
	"context"

	"git.fiblab.net/general/common/v2/cache"
	"git.fiblab.net/general/common/v2/mongoutil"
	"git.fiblab.net/general/common/v2/protoutil"
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/protobuf/proto"

	"git.fiblab.net/sim/tldetector/utils/config"
)

// Input 输入数据
// 功能：存储检测节点启动所需的输入数据
// 说明：地图数据用于从车道中心线构建行驶路线，支持从文件或数据库加载
type Input struct {
	Map *mapv2.Map
}

// Init 下载数据
// 功能：根据配置加载地图输入数据
// 参数：c-配置对象，cacheDir-缓存目录
// 返回：加载完成的输入数据指针
// 说明：文件数据源优先于MongoDB；两者都未配置时返回空地图，
// 此时路线只能由外部数据源在运行时推送（实车模式）
func Init(c config.Config, cacheDir string) (res *Input) {
	useCache := preCheckCache(cacheDir)
	if !useCache {
		cacheDir = ""
	}

	var client *mongo.Client
	if c.Input.URI != "" {
		client = mongoutil.NewClient(c.Input.URI)
		defer client.Disconnect(context.Background())
	}

	res = &Input{}
	if c.Input.Map.File != "" {
		var m mapv2.Map
		if err := protoutil.UnmarshalFromFile(&m, c.Input.Map.File); err != nil {
			log.Panicf("failed to load map from file: %v", err)
		}
		res.Map = &m
	} else if c.Input.Map.DB != "" || c.Input.Map.OnlyCache {
		res.Map = mustLoad[mapv2.Map](client, c.Input.Map, cacheDir)
	} else {
		log.Info("no map input configured, wait for route feed")
	}
	if res.Map != nil {
		log.Infof("Lane: %v", len(res.Map.Lanes))
	}
	return
}

// mustLoad 必须加载数据（泛型函数）
// 功能：从MongoDB或缓存中加载proto数据
// 参数：client-MongoDB客户端，inputPath-输入路径配置，cacheDir-缓存目录
// 返回：加载的数据对象
// 说明：总是先试图从缓存加载，缓存未命中时从MongoDB下载，下载失败则panic
func mustLoad[T any, PT interface {
	proto.Message
	*T
}](
	client *mongo.Client,
	inputPath config.InputPath,
	cacheDir string,
) (res PT) {
	coll := mongoutil.GetMongoColl(client, inputPath)
	var downloadFunc func() PT
	var err error
	if !inputPath.OnlyCache {
		downloadFunc = func() PT {
			pb, errs := mongoutil.DownloadPbFromMongo[T, PT](context.Background(), coll, nil, nil)
			if len(errs) > 0 {
				for _, err := range errs {
					log.Errorf("failed to download: %v", err)
				}
				log.Panicln("failed to download")
			}
			return pb
		}
	}
	log.Infof("start fetching from %s.%s", inputPath.DB, inputPath.Col)
	res, err = cache.LoadWithCache(cacheDir, inputPath, downloadFunc)
	if err != nil {
		log.Panicf("failed to load with cache: %v", err)
	}
	log.Infof("finish fetching from %s.%s", inputPath.DB, inputPath.Col)
	return res
}
