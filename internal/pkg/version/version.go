// ### 发布流程
// 1. **更新版本号**：修改 `internal/pkg/version/version.go`
// 2. **构建时注入**：go build -ldflags "-X itassets/internal/pkg/version.GitCommit=..."

package version

var (
	Version   = "1.2.0" // 版本号 -- 发布时候更新版本号
	BuildTime string
	GitCommit string
	GoVersion string
)

func GetVersion() string {
	return Version
}
