package live

// pageTemplate is the demo page. {{board}} is replaced with the rendered
// board; frames from /ws replace it in place.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>keyed board</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; }
#board li { padding: .2rem 0; }
#stats { color: #666; font-size: .9rem; }
</style>
</head>
<body>
<form id="add">
  <input name="label" placeholder="label" autofocus>
  <button>Append</button>
  <button type="button" data-op="/items/prepend">Prepend</button>
  <button type="button" data-op="/reverse">Reverse</button>
  <button type="button" data-op="/shuffle">Shuffle</button>
  <button type="button" data-op="/clear">Clear</button>
</form>
<p id="stats"></p>
{{board}}
<script>
(function() {
    'use strict';

    var form = document.getElementById('add');

    function post(path, body) {
        return fetch(path, {
            method: 'POST',
            headers: {'Content-Type': 'application/json'},
            body: body ? JSON.stringify(body) : '{}'
        });
    }

    form.addEventListener('submit', function(e) {
        e.preventDefault();
        post('/items', {label: form.label.value});
        form.label.value = '';
    });

    form.querySelectorAll('[data-op]').forEach(function(btn) {
        btn.addEventListener('click', function() {
            var op = btn.getAttribute('data-op');
            post(op, op === '/items/prepend' ? {label: form.label.value} : null);
        });
    });

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(protocol + '//' + location.host + '/ws');
        ws.onmessage = function(e) {
            var frame = JSON.parse(e.data);
            document.getElementById('board').outerHTML = frame.html;
            if (frame.path) {
                document.getElementById('stats').textContent = 'pass ' + frame.seq + ': ' + frame.path +
                    ' +' + frame.stats.Created + ' -' + frame.stats.Removed + ' moved ' + frame.stats.Moved;
            }
        };
        ws.onclose = function() { setTimeout(connect, 1000); };
    }
    connect();
})();
</script>
</body>
</html>
`
