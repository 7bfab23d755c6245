package global

import (
	"github.com/kanbanstr/board-sync-service/pkg/fileurl"
)

var (
	// 程序执行目录
	ROOT    string
	Name    string = "Board Sync Service"
	Version string = "dev"
)

func init() {

	filename := fileurl.GetExePath()
	ROOT = filename + "/"

}
