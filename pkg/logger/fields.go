package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldPubKey 公钥字段
	FieldPubKey = "pubkey"

	// FieldBoard 看板标识字段
	FieldBoard = "board"

	// FieldCard 卡片标识字段
	FieldCard = "card"

	// FieldKind 记录类型字段
	FieldKind = "kind"

	// FieldRelay 中继地址字段
	FieldRelay = "relay"

	// FieldEventID 事件 ID 字段
	FieldEventID = "eventId"

	// FieldAction 操作类型字段
	FieldAction = "action"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldError 错误信息字段
	FieldError = "error"

	// FieldCount 数量字段
	FieldCount = "count"
)
