package thread

// Identity 会话身份，由认证层提供，核心只消费
type Identity struct {
	ID     int64
	Handle *string
	Avatar *string
}

// Authenticated 是否为已登录用户
func (i Identity) Authenticated() bool {
	return i.ID > 0
}

// Anonymous 匿名身份
var Anonymous = Identity{}
