package code

// Success codes // 成功码
var (
	Success       = NewSuss(0, lang{en: "Success", zh_cn: "成功"})
	SuccessCreate = NewSuss(1, lang{en: "Created", zh_cn: "创建成功"})
	SuccessUpdate = NewSuss(2, lang{en: "Updated", zh_cn: "更新成功"})
)

// Generic service errors // 通用服务错误
var (
	ErrorServerInternal  = NewError(10000, lang{en: "Internal server error", zh_cn: "服务内部错误"})
	ErrorInvalidParams   = NewError(10001, lang{en: "Invalid request parameters", zh_cn: "入参错误"})
	ErrorNotFoundAPI     = NewError(10002, lang{en: "API not found", zh_cn: "找不到对应接口"})
	ErrorTooManyRequests = NewError(10003, lang{en: "Too many requests", zh_cn: "请求过多"})
	ErrorServerBusy      = NewError(10004, lang{en: "Server busy, please try again later", zh_cn: "服务繁忙，请稍后重试"})
	ErrorRequestTimeout  = NewError(10005, lang{en: "Request timed out", zh_cn: "请求超时"})
)

// Board / card data errors // 看板与卡片数据错误
var (
	ErrorNotFound         = NewError(20000, lang{en: "Record not found", zh_cn: "记录不存在"})
	ErrorPermissionDenied = NewError(20001, lang{en: "Permission denied", zh_cn: "没有操作权限"})
	ErrorDecodeFailed     = NewError(20002, lang{en: "Record could not be decoded", zh_cn: "记录解析失败"})
	ErrorMigrationFailed  = NewError(20003, lang{en: "Board migration failed", zh_cn: "看板迁移失败"})
	ErrorTransport        = NewError(20004, lang{en: "Relay transport error", zh_cn: "中继传输错误"})
	ErrorReadOnly         = NewError(20005, lang{en: "No signer configured, service is read only", zh_cn: "未配置签名器，服务为只读模式"})
	ErrorNotLegacy        = NewError(20006, lang{en: "Board is not in the legacy format", zh_cn: "看板不是旧格式"})
)
