package builtinreg

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/flowlang/flo/internal/evaluator"
	_ "modernc.org/sqlite"
)

// sqlModule wires modernc.org/sqlite (a pure-Go, cgo-free sqlite driver)
// behind database/sql, following an embedded-database, module-per-
// concern layout. Handles are Int handles into a process-wide registry rather
// than a new Object kind, the same choice dateModule makes for instants.
type sqlModule struct{}

func (sqlModule) Name() string { return "sql" }

var (
	sqlHandles   = make(map[int64]*sql.DB)
	sqlHandlesMu sync.Mutex
	sqlNextID    int64
)

func (sqlModule) Register(out map[string]*evaluator.Builtin) {
	out["open"] = &evaluator.Builtin{Name: "open", Fn: func(args []evaluator.Object) evaluator.Object {
		if len(args) != 1 {
			return evaluator.NewError("open: requires exactly 1 argument")
		}
		dsn, ok := args[0].(*evaluator.String)
		if !ok {
			return evaluator.NewError("open: argument must be a String DSN")
		}
		db, err := sql.Open("sqlite", dsn.Value)
		if err != nil {
			return evaluator.NewError("sql open error: %v", err)
		}
		sqlHandlesMu.Lock()
		sqlNextID++
		id := sqlNextID
		sqlHandles[id] = db
		sqlHandlesMu.Unlock()
		return &evaluator.Int{Value: float64(id)}
	}}

	out["exec"] = &evaluator.Builtin{Name: "exec", Fn: func(args []evaluator.Object) evaluator.Object {
		db, stmt, err := sqlArgs("exec", args)
		if err != nil {
			return err
		}
		res, execErr := db.Exec(stmt)
		if execErr != nil {
			return evaluator.NewError("sql exec error: %v", execErr)
		}
		affected, _ := res.RowsAffected()
		return &evaluator.Int{Value: float64(affected)}
	}}

	out["query"] = &evaluator.Builtin{Name: "query", Fn: func(args []evaluator.Object) evaluator.Object {
		db, stmt, err := sqlArgs("query", args)
		if err != nil {
			return err
		}
		rows, qerr := db.Query(stmt)
		if qerr != nil {
			return evaluator.NewError("sql query error: %v", qerr)
		}
		defer rows.Close()
		cols, cerr := rows.Columns()
		if cerr != nil {
			return evaluator.NewError("sql query error: %v", cerr)
		}
		var out []evaluator.Object
		for rows.Next() {
			raw := make([]interface{}, len(cols))
			ptrs := make([]interface{}, len(cols))
			for i := range raw {
				ptrs[i] = &raw[i]
			}
			if serr := rows.Scan(ptrs...); serr != nil {
				return evaluator.NewError("sql scan error: %v", serr)
			}
			rec := evaluator.NewRecord()
			for i, col := range cols {
				rec.Set(col, sqlValueToObject(raw[i]))
			}
			out = append(out, rec)
		}
		return &evaluator.List{Elements: out}
	}}

	out["close"] = &evaluator.Builtin{Name: "close", Fn: func(args []evaluator.Object) evaluator.Object {
		if len(args) != 1 {
			return evaluator.NewError("close: requires exactly 1 argument")
		}
		id, ok := args[0].(*evaluator.Int)
		if !ok {
			return evaluator.NewError("close: argument must be an Int handle")
		}
		sqlHandlesMu.Lock()
		db, found := sqlHandles[int64(id.Value)]
		delete(sqlHandles, int64(id.Value))
		sqlHandlesMu.Unlock()
		if !found {
			return evaluator.NewError("close: unknown sql handle %d", int64(id.Value))
		}
		if err := db.Close(); err != nil {
			return evaluator.NewError("sql close error: %v", err)
		}
		return evaluator.NULL
	}}
}

func sqlArgs(name string, args []evaluator.Object) (*sql.DB, string, *evaluator.Error) {
	if len(args) != 2 {
		return nil, "", evaluator.NewError("%s: requires exactly 2 arguments (handle, statement)", name)
	}
	id, ok := args[0].(*evaluator.Int)
	if !ok {
		return nil, "", evaluator.NewError("%s: first argument must be an Int handle", name)
	}
	stmt, ok := args[1].(*evaluator.String)
	if !ok {
		return nil, "", evaluator.NewError("%s: second argument must be a String", name)
	}
	sqlHandlesMu.Lock()
	db, found := sqlHandles[int64(id.Value)]
	sqlHandlesMu.Unlock()
	if !found {
		return nil, "", evaluator.NewError("%s: unknown sql handle %d", name, int64(id.Value))
	}
	return db, stmt.Value, nil
}

func sqlValueToObject(v interface{}) evaluator.Object {
	switch val := v.(type) {
	case nil:
		return evaluator.NULL
	case int64:
		return &evaluator.Int{Value: float64(val)}
	case float64:
		return &evaluator.Int{Value: val, IsFloatSyntax: true}
	case []byte:
		return &evaluator.String{Value: string(val)}
	case string:
		return &evaluator.String{Value: val}
	case bool:
		return evaluator.NativeBool(val)
	default:
		return &evaluator.String{Value: fmt.Sprintf("%v", val)}
	}
}
