package errors

import "errors"

// ErrRemoteRejected 远程记录服务拒绝了写入（success=false 或单条记录失败）
var ErrRemoteRejected = errors.New("远程记录服务拒绝了写入请求")

// ErrUnsupportedDriver 未知的存储驱动名称
var ErrUnsupportedDriver = errors.New("不支持的存储驱动")
